package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

const reportDateLayout = "2006-01-02"

// ReportHandler handles exports and the audit trail
type ReportHandler struct {
	reports *services.ReportService
	audit   *services.AuditService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, audit *services.AuditService) *ReportHandler {
	return &ReportHandler{reports: reports, audit: audit}
}

// ExportDeposits builds the deposit report for a date range
// @Summary Export deposits
// @Description format=csv downloads the file; otherwise the summary (and gs:// URI when uploaded) is returned
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD), inclusive"
// @Param format query string false "csv"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/reports/deposits [get]
func (h *ReportHandler) ExportDeposits(c *fiber.Ctx) error {
	from, err := parseReportDate(c.Query("from"))
	if err != nil {
		return response.BadRequest(c, "from must be YYYY-MM-DD")
	}
	to, err := parseReportDate(c.Query("to"))
	if err != nil {
		return response.BadRequest(c, "to must be YYYY-MM-DD")
	}

	report, err := h.reports.ExportDeposits(c.UserContext(), from, to)
	if err != nil {
		return response.FromError(c, err)
	}

	if c.Query("format") == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Attachment(report.FileName)
		return c.Send(report.CSV)
	}
	return response.Success(c, "Report generated", report)
}

// ListLogs returns the audit trail, newest first
// @Summary Audit log
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param type query string false "Category filter"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response
// @Router /api/v1/admin/logs [get]
func (h *ReportHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.audit.ListRecent(c.UserContext(), c.Query("type"), queryLimit(c, 0))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Audit log retrieved successfully", logs)
}

func parseReportDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(reportDateLayout, s, time.Local)
}
