package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// DepositHandler handles deposit requests and their resolution
type DepositHandler struct {
	queue  *services.RequestQueueService
	ledger *services.LedgerService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(queue *services.RequestQueueService, ledger *services.LedgerService) *DepositHandler {
	return &DepositHandler{queue: queue, ledger: ledger}
}

// Submit queues a deposit claim from the calling member
// @Summary Submit deposit
// @Description Member reports a payment; it stays pending until staff resolve it
// @Tags Deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitDepositInput true "Deposit"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/deposits [post]
func (h *DepositHandler) Submit(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.SubmitDepositInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	deposit, err := h.queue.SubmitDeposit(c.UserContext(), actor, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Deposit submitted for review", deposit)
}

// ListMine returns the caller's deposit history
// @Summary My deposits
// @Tags Deposits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/me/deposits [get]
func (h *DepositHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	items, err := h.queue.ListMemberDeposits(c.UserContext(), actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Deposits retrieved successfully", items)
}

// ListPending returns pending deposits, oldest first
// @Summary Pending deposits
// @Tags Admin Deposits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/deposits/pending [get]
func (h *DepositHandler) ListPending(c *fiber.Ctx) error {
	items, err := h.queue.ListPendingDeposits(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pending deposits retrieved successfully", items)
}

// Approve credits a pending deposit
// @Summary Approve deposit
// @Tags Admin Deposits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deposit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/admin/deposits/{id}/approve [post]
func (h *DepositHandler) Approve(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	deposit, err := h.ledger.ApproveDeposit(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Deposit approved", deposit)
}

// Reject refuses a pending deposit
// @Summary Reject deposit
// @Tags Admin Deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deposit ID"
// @Param body body ReasonRequest false "Reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/deposits/{id}/reject [post]
func (h *DepositHandler) Reject(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req ReasonRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	deposit, err := h.ledger.RejectDeposit(c.UserContext(), c.Params("id"), actor, req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Deposit rejected", deposit)
}

// Direct records cash collected in person
// @Summary Record cash deposit
// @Description Creates an approved deposit and credits savings in one step
// @Tags Admin Deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DirectDepositInput true "Cash deposit"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/deposits/direct [post]
func (h *DepositHandler) Direct(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.DirectDepositInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	deposit, err := h.ledger.RecordDirectDeposit(c.UserContext(), req, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Cash deposit recorded", deposit)
}
