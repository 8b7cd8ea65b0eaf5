package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// JoinRequestHandler handles membership applications
type JoinRequestHandler struct {
	queue *services.RequestQueueService
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(queue *services.RequestQueueService) *JoinRequestHandler {
	return &JoinRequestHandler{queue: queue}
}

// Submit queues a self-registration
// @Summary Apply for membership
// @Tags Join Requests
// @Accept json
// @Produce json
// @Param body body services.JoinRequestInput true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/join-requests [post]
func (h *JoinRequestHandler) Submit(c *fiber.Ctx) error {
	var req services.JoinRequestInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	jr, err := h.queue.SubmitJoinRequest(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Application submitted, wait for approval", fiber.Map{
		"id":     jr.ID,
		"status": jr.Status,
	})
}

// ListPending returns pending applications
// @Summary Pending join requests
// @Tags Join Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/join-requests [get]
func (h *JoinRequestHandler) ListPending(c *fiber.Ctx) error {
	items, err := h.queue.ListPendingJoinRequests(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Join requests retrieved successfully", items)
}

// Approve creates the member account
// @Summary Approve join request
// @Tags Join Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Join request ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/join-requests/{id}/approve [post]
func (h *JoinRequestHandler) Approve(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	member, err := h.queue.ApproveJoinRequest(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Member created", member)
}

// Reject refuses an application
// @Summary Reject join request
// @Tags Join Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Join request ID"
// @Param body body ReasonRequest false "Reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/join-requests/{id}/reject [post]
func (h *JoinRequestHandler) Reject(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req ReasonRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	jr, err := h.queue.RejectJoinRequest(c.UserContext(), c.Params("id"), actor, req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Join request rejected", jr)
}
