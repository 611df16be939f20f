package rest

import (
	domainSubscription "github.com/commentify/commentify/domains/subscription"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Subscription struct {
	Service domainSubscription.ISubscriptionUsecase
}

func InitRestSubscription(app fiber.Router, service domainSubscription.ISubscriptionUsecase) Subscription {
	rest := Subscription{Service: service}
	app.Get("/subscription", rest.GetSubscription)
	app.Post("/subscription/trial", rest.UseTrial)
	app.Post("/subscription/upgrade", rest.Upgrade)
	return rest
}

func (controller *Subscription) GetSubscription(c *fiber.Ctx) error {
	subscription, err := controller.Service.Get(c.UserContext(), currentUser(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch subscription",
		Results: subscription,
	})
}

func (controller *Subscription) UseTrial(c *fiber.Ctx) error {
	subscription, err := controller.Service.UseTrial(c.UserContext(), currentUser(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Trial activated",
		Results: subscription,
	})
}

type upgradeRequest struct {
	PlanType domainSubscription.PlanType `json:"plan_type"`
}

func (controller *Subscription) Upgrade(c *fiber.Ctx) error {
	var request upgradeRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	subscription, err := controller.Service.Upgrade(c.UserContext(), currentUser(c), request.PlanType)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Subscription upgraded",
		Results: subscription,
	})
}
