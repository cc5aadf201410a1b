package handler

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/middleware"
	"aide-sociale/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var input domain.CreateNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	notifications, err := h.notifService.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":  notifications,
		"count": len(notifications),
	})
}

func (h *NotificationHandler) SendBulk(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var input domain.BulkNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.notifService.SendBulk(c.UserContext(), caller, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	filter, err := getNotificationFilter(c)
	if err != nil {
		return err
	}

	result, err := h.notifService.List(c.UserContext(), caller, filter, getListParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetStats(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	filter, err := getNotificationFilter(c)
	if err != nil {
		return err
	}

	report, err := h.notifService.GetStats(c.UserContext(), caller, filter, domain.TrendGranularity(c.Query("granularity")))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *NotificationHandler) GetMine(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	filter, err := getNotificationFilter(c)
	if err != nil {
		return err
	}
	// the feed is always scoped to the caller
	filter.RecipientID = nil

	feed, err := h.notifService.GetUserFeed(c.UserContext(), caller, filter, getListParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(feed)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	counts, err := h.notifService.GetUnreadCount(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(counts)
}

func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	n, err := h.notifService.GetByID(c.UserContext(), caller, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	n, err := h.notifService.MarkAsRead(c.UserContext(), caller, id, middleware.InteractionMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	updated, err := h.notifService.MarkAllAsRead(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) MarkAsClicked(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	n, err := h.notifService.MarkAsClicked(c.UserContext(), caller, id, middleware.InteractionMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifService.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) RetryFailed(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	maxRetries := c.QueryInt("max_retries", 0)
	result, err := h.notifService.RetryFailed(c.UserContext(), caller, maxRetries)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) ProcessScheduled(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	result, err := h.notifService.ProcessScheduled(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) CleanExpired(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	result, err := h.notifService.CleanExpired(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
