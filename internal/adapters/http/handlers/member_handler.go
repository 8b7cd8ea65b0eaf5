package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/pagination"
	"somity-ledger/internal/pkg/response"
)

// MemberHandler handles member and staff accounts
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// TargetRequest represents a monthly target update
type TargetRequest struct {
	MonthlyTarget decimal.Decimal `json:"monthly_target"`
}

// StatusRequest represents an account status change
type StatusRequest struct {
	Status string `json:"status"`
}

// List returns members page by page
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Name, phone or registration number"
// @Param status query string false "active or inactive"
// @Success 200 {object} pagination.Response
// @Router /api/v1/admin/members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	result, err := h.memberService.ListMembers(c.UserContext(), services.ListMembersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: c.Query("search"),
		Role:   c.Query("role", "member"),
		Status: c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Members retrieved successfully", result)
}

// Get returns a member with deposits and loans
// @Summary Get member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	detail, err := h.memberService.GetMemberDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Member retrieved successfully", detail)
}

// Create registers a member directly
// @Summary Register member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterMemberInput true "Member"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.RegisterMemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.RegisterMember(c.UserContext(), req, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Member registered", member)
}

// UpdateTarget sets a member's monthly savings target
// @Summary Update monthly target
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body TargetRequest true "Target"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/members/{id}/target [put]
func (h *MemberHandler) UpdateTarget(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req TargetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.UpdateMonthlyTarget(c.UserContext(), c.Params("id"), req.MonthlyTarget, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Monthly target updated", member)
}

// SetStatus activates or deactivates an account
// @Summary Set account status
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/members/{id}/status [put]
func (h *MemberHandler) SetStatus(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.SetStatus(c.UserContext(), c.Params("id"), req.Status, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Account status updated", member)
}

// CreateStaff adds a cashier or admin
// @Summary Add staff
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddStaffInput true "Staff account"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/staff [post]
func (h *MemberHandler) CreateStaff(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.AddStaffInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staff, err := h.memberService.AddStaff(c.UserContext(), req, actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Staff account created", staff)
}

// ListStaff returns every admin and cashier
// @Summary List staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/staff [get]
func (h *MemberHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.memberService.ListStaff(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Staff retrieved successfully", staff)
}

// UpdateMyProfile edits the caller's contact fields
// @Summary Update my profile
// @Tags Me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile"
// @Success 200 {object} response.Response
// @Router /api/v1/me [put]
func (h *MemberHandler) UpdateMyProfile(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.UpdateProfile(c.UserContext(), actor.ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated", member)
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Tags Me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/me/password [put]
func (h *MemberHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := actorOrAbort(c)
	if !ok {
		return nil
	}
	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.memberService.ChangePassword(c.UserContext(), actor.ID, req); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Password changed successfully", nil)
}
