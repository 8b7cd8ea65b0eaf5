package handlers

import (
	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

// SettingsHandler handles somity-wide settings
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetPay returns the receiving bKash and Nagad numbers
// @Summary Payment numbers
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/settings/pay [get]
func (h *SettingsHandler) GetPay(c *fiber.Ctx) error {
	pay, err := h.settings.GetPaySettings(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment settings retrieved", pay)
}

// PutPay replaces the receiving numbers
// @Summary Update payment numbers
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PaySettings true "Numbers"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/settings/pay [put]
func (h *SettingsHandler) PutPay(c *fiber.Ctx) error {
	var req services.PaySettings
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	pay, err := h.settings.PutPaySettings(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment settings updated", pay)
}

// GetCollection returns the collection window
// @Summary Collection window
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/settings/collection [get]
func (h *SettingsHandler) GetCollection(c *fiber.Ctx) error {
	cfg, err := h.settings.GetCollectionConfig(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Collection window retrieved", cfg)
}

// PutCollection replaces the collection window
// @Summary Update collection window
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CollectionConfig true "Window days"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/settings/collection [put]
func (h *SettingsHandler) PutCollection(c *fiber.Ctx) error {
	var req services.CollectionConfig
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	cfg, err := h.settings.PutCollectionConfig(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Collection window updated", cfg)
}
