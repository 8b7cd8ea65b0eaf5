package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// NotificationHandler handles the caller's in-app inbox
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListMine returns the caller's notifications and unread count
// @Summary My notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max notifications" default(50)
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	inbox, err := h.notifications.ListMine(c.UserContext(), actor.ID, queryLimit(c, 50))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications retrieved successfully", inbox)
}

// MarkAllRead marks every notification of the caller as read
// @Summary Mark notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/read [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	n, err := h.notifications.MarkAllRead(c.UserContext(), actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications marked as read", fiber.Map{"updated": n})
}
