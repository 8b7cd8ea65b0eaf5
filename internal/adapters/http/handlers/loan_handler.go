package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// LoanHandler handles loan issue, repayment and balances
type LoanHandler struct {
	ledger   *services.LedgerService
	balances *services.BalanceService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(ledger *services.LedgerService, balances *services.BalanceService) *LoanHandler {
	return &LoanHandler{ledger: ledger, balances: balances}
}

// RepayRequest represents a repayment body
type RepayRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Issue creates an approved loan
// @Summary Issue loan
// @Description Computes total payable as principal plus flat interest
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.IssueLoanInput true "Loan"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/loans [post]
func (h *LoanHandler) Issue(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.IssueLoanInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.ledger.IssueLoan(c.UserContext(), req, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Loan issued", loan)
}

// ListActive returns loans with an outstanding balance
// @Summary Active loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/loans [get]
func (h *LoanHandler) ListActive(c *fiber.Ctx) error {
	loans, err := h.balances.ListActiveLoans(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loans retrieved successfully", loans)
}

// Get returns one loan with its current balance
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loan, err := h.balances.GetLoanBalance(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan retrieved successfully", loan)
}

// Repay records a repayment against a loan
// @Summary Repay loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body RepayRequest true "Amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/admin/loans/{id}/repay [post]
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.ledger.RepayLoan(c.UserContext(), c.Params("id"), req.Amount, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Repayment recorded", result)
}

// ListRepayments returns the repayments of a loan
// @Summary Loan repayments
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *fiber.Ctx) error {
	items, err := h.balances.ListRepayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Repayments retrieved successfully", items)
}

// ListMine returns the caller's loans
// @Summary My loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/me/loans [get]
func (h *LoanHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	loans, err := h.balances.ListMemberLoans(c.UserContext(), actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loans retrieved successfully", loans)
}
