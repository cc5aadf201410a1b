package handler

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/middleware"
	"aide-sociale/internal/service/subscription"
)

type PushSubscriptionHandler struct {
	subService subscription.Service
	vapidKey   string
}

func NewPushSubscriptionHandler(subService subscription.Service, vapidPublicKey string) *PushSubscriptionHandler {
	return &PushSubscriptionHandler{subService: subService, vapidKey: vapidPublicKey}
}

// VAPIDKey is what browsers need to create a subscription.
func (h *PushSubscriptionHandler) VAPIDKey(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"public_key": h.vapidKey})
}

func (h *PushSubscriptionHandler) Subscribe(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var input domain.PushSubscriptionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	sub, err := h.subService.Subscribe(c.UserContext(), caller, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *PushSubscriptionHandler) Unsubscribe(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var body struct {
		Endpoint    string `json:"endpoint"`
		DeviceToken string `json:"device_token"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	address := body.Endpoint
	if address == "" {
		address = body.DeviceToken
	}

	if err := h.subService.Unsubscribe(c.UserContext(), caller, address); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *PushSubscriptionHandler) List(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	subs, err := h.subService.List(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": subs})
}
