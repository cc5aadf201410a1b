package handler

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var action *domain.AuditAction
	if v := c.Query("action"); v != "" {
		a := domain.AuditAction(v)
		action = &a
	}

	logs, err := h.auditService.List(c.UserContext(), caller, action, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
