package rest

import (
	"github.com/commentify/commentify/core/settings/application"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Settings struct {
	Service *application.SettingsService
}

func InitRestSettings(app fiber.Router, service *application.SettingsService) Settings {
	rest := Settings{Service: service}
	app.Get("/app/settings", rest.GetSettings)
	app.Post("/app/settings", rest.UpdateSettings)
	return rest
}

func (controller *Settings) GetSettings(c *fiber.Ctx) error {
	settings, err := controller.Service.GetAutomationSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch settings",
		Results: settings,
	})
}

type updateSettingsRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (controller *Settings) UpdateSettings(c *fiber.Ctx) error {
	var request updateSettingsRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = controller.Service.SetAutomationInterval(c.UserContext(), request.IntervalSeconds)
	utils.PanicIfNeeded(err)

	settings, err := controller.Service.GetAutomationSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Settings updated",
		Results: settings,
	})
}
