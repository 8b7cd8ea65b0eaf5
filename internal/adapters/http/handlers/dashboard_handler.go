package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	balanceService   *services.BalanceService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, balanceService *services.BalanceService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		balanceService:   balanceService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Counts, pending queue sizes, totals and recent activity (staff only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetSummary returns somity-wide savings and loan totals
// @Summary Ledger summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.balanceService.Summary(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Summary retrieved successfully", summary)
}

// GetMyDashboard returns the caller's home screen
// @Summary My Dashboard
// @Description Member profile, savings, loan balance, recent deposits and notices
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/me [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}

	data, err := h.dashboardService.GetMemberDashboard(c.UserContext(), actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"role":     actor.Role,
		"is_staff": actor.Role.IsStaff(),
		"data":     data,
	})
}

// GetMemberSavings returns one member's savings position
// @Summary Member savings
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/members/{id}/savings [get]
func (h *DashboardHandler) GetMemberSavings(c *fiber.Ctx) error {
	savings, err := h.balanceService.GetSavings(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Savings retrieved successfully", savings)
}
