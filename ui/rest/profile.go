package rest

import (
	"strings"

	domainProfile "github.com/commentify/commentify/domains/profile"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/commentify/commentify/validations"
	"github.com/gofiber/fiber/v2"
)

type Profile struct {
	Service domainProfile.IProfileUsecase
}

func InitRestProfile(app fiber.Router, service domainProfile.IProfileUsecase) Profile {
	rest := Profile{Service: service}
	app.Get("/profiles", rest.ListProfiles)
	app.Post("/profiles", rest.CreateProfile)
	app.Delete("/profiles/:id", rest.DeleteProfile)
	return rest
}

func (controller *Profile) ListProfiles(c *fiber.Ctx) error {
	platform := domainProfile.Platform(strings.TrimSpace(c.Query("platform")))

	profiles, err := controller.Service.List(c.UserContext(), currentUser(c), platform)
	utils.PanicIfNeeded(err)

	// list responses never echo the raw cookie export
	for i := range profiles {
		profiles[i].Cookie = ""
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch profiles",
		Results: profiles,
	})
}

func (controller *Profile) CreateProfile(c *fiber.Ctx) error {
	var request domainProfile.CreateProfileRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateCreateProfile(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	profile, err := controller.Service.Create(c.UserContext(), currentUser(c), request)
	utils.PanicIfNeeded(err)

	profile.Cookie = ""

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create profile",
		Results: profile,
	})
}

func (controller *Profile) DeleteProfile(c *fiber.Ctx) error {
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
		Message: "Success delete profile",
	})
}
