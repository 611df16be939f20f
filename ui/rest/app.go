package rest

import (
	"runtime"

	"github.com/commentify/commentify/core/config"
	"github.com/commentify/commentify/core/database"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type App struct{}

func InitRestApp(app fiber.Router) App {
	rest := App{}
	app.Get("/app/version", rest.GetVersion)
	app.Get("/app/health", rest.GetHealth)
	return rest
}

func (handler *App) GetVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": config.Global.App.Version,
		"os":      runtime.GOOS,
	})
}

func (handler *App) GetHealth(c *fiber.Ctx) error {
	dbStatus := "ok"
	if database.GlobalDB == nil {
		dbStatus = "uninitialized"
	} else if sqlDB, err := database.GlobalDB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	}

	status := 200
	if dbStatus != "ok" {
		status = 503
	}

	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: fiber.Map{
			"database": dbStatus,
		},
	})
}
