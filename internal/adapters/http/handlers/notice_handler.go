package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// NoticeHandler handles the notice board
type NoticeHandler struct {
	notices *services.NoticeService
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(notices *services.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// List returns notices, newest first
// @Summary List notices
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max notices" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/notices [get]
func (h *NoticeHandler) List(c *fiber.Ctx) error {
	items, err := h.notices.ListNotices(c.UserContext(), queryLimit(c, 20))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notices retrieved successfully", items)
}

// Latest returns the newest notice, or null
// @Summary Latest notice
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notices/latest [get]
func (h *NoticeHandler) Latest(c *fiber.Ctx) error {
	notice, err := h.notices.LatestNotice(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Latest notice retrieved", notice)
}

// Create publishes a notice
// @Summary Publish notice
// @Tags Notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateNoticeInput true "Notice"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/notices [post]
func (h *NoticeHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.CreateNoticeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	notice, err := h.notices.CreateNotice(c.UserContext(), req, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Notice published", notice)
}

// Delete removes a notice
// @Summary Delete notice
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/notices/{id} [delete]
func (h *NoticeHandler) Delete(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	if err := h.notices.DeleteNotice(c.UserContext(), c.Params("id"), actor); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notice deleted", nil)
}
