package rest

import (
	"strings"

	domainComment "github.com/commentify/commentify/domains/comment"
	domainProfile "github.com/commentify/commentify/domains/profile"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/commentify/commentify/validations"
	"github.com/gofiber/fiber/v2"
)

type Comment struct {
	Service domainComment.ICommentUsecase
}

func InitRestComment(app fiber.Router, service domainComment.ICommentUsecase) Comment {
	rest := Comment{Service: service}
	app.Get("/comments", rest.ListComments)
	app.Post("/comments", rest.CreateComment)
	app.Delete("/comments/:id", rest.DeleteComment)
	return rest
}

func (controller *Comment) ListComments(c *fiber.Ctx) error {
	platform := domainProfile.Platform(strings.TrimSpace(c.Query("platform")))

	comments, err := controller.Service.List(c.UserContext(), currentUser(c), platform)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch comments",
		Results: comments,
	})
}

func (controller *Comment) CreateComment(c *fiber.Ctx) error {
	var request domainComment.CreateCommentRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateCreateComment(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	comment, err := controller.Service.Create(c.UserContext(), currentUser(c), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create comment",
		Results: comment,
	})
}

func (controller *Comment) DeleteComment(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "id is required",
		})
	}

	err := controller.Service.Delete(c.UserContext(), currentUser(c), id)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete comment",
	})
}
