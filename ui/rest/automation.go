package rest

import (
	domainAutomation "github.com/commentify/commentify/domains/automation"
	"github.com/commentify/commentify/pkg/runworker"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Automation struct {
	Service domainAutomation.IAutomationUsecase
	Pool    *runworker.Pool
}

func InitRestAutomation(app fiber.Router, service domainAutomation.IAutomationUsecase, pool *runworker.Pool) Automation {
	rest := Automation{Service: service, Pool: pool}
	app.Post("/automation/run", rest.StartRun)
	app.Get("/automation/run", rest.GetRun)
	app.Delete("/automation/run", rest.CancelRun)
	app.Get("/automation/workers", rest.GetWorkerStats)
	return rest
}

func (controller *Automation) StartRun(c *fiber.Ctx) error {
	var request domainAutomation.RunRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	// Pre-flight checks happen inside the usecase in a fixed order; the
	// entitlement gate must see the request before any field check does.
	snapshot, err := controller.Service.StartRun(c.UserContext(), currentUser(c), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Automation scheduled",
		Results: snapshot,
	})
}

func (controller *Automation) GetRun(c *fiber.Ctx) error {
	snapshot, err := controller.Service.GetRun(c.UserContext(), currentUser(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch automation run",
		Results: snapshot,
	})
}

func (controller *Automation) CancelRun(c *fiber.Ctx) error {
	err := controller.Service.CancelRun(c.UserContext(), currentUser(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Automation cancellation requested",
	})
}

// GetWorkerStats returns real-time worker pool statistics
func (controller *Automation) GetWorkerStats(c *fiber.Ctx) error {
	if controller.Pool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Worker pool not initialized",
		})
	}
	return c.JSON(controller.Pool.Stats())
}
