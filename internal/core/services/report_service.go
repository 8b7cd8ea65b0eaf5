package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// ReportUploader stores a finished report and returns where it went
type ReportUploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

var reportEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)

// DepositReport is a CSV collection report
type DepositReport struct {
	FileName      string          `json:"file_name"`
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Rows          int             `json:"rows"`
	ApprovedTotal decimal.Decimal `json:"approved_total"`
	URI           string          `json:"uri,omitempty"`
	CSV           []byte          `json:"-"`
}

// ReportService exports deposits for a date range
type ReportService struct {
	deposits repositories.DepositRepository
	uploader ReportUploader
	log      zerolog.Logger
	now      func() time.Time
}

// NewReportService creates a new report service. uploader may be nil.
func NewReportService(deposits repositories.DepositRepository, uploader ReportUploader, log zerolog.Logger) *ReportService {
	return &ReportService{
		deposits: deposits,
		uploader: uploader,
		log:      log.With().Str("component", "reports").Logger(),
		now:      time.Now,
	}
}

// ExportDeposits writes every deposit created between from and the end of the
// day of to. Zero bounds mean "since the beginning" and "today".
func (s *ReportService) ExportDeposits(ctx context.Context, from, to time.Time) (*DepositReport, error) {
	if from.IsZero() {
		from = reportEpoch
	}
	if to.IsZero() {
		to = s.now()
	}
	from = startOfDay(from)
	to = startOfDay(to).Add(24*time.Hour - time.Nanosecond)
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	items, err := s.deposits.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Member Name", "Amount", "Method", "Status", "Date"}); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, d := range items {
		method := d.Method
		if method == "" {
			method = "Cash"
		}
		if err := w.Write([]string{
			d.UserName,
			d.Amount.StringFixed(2),
			method,
			d.Status,
			d.CreatedAt.Format("02/01/2006"),
		}); err != nil {
			return nil, err
		}
		if d.Status == string(domain.StatusApproved) {
			total = total.Add(d.Amount)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	report := &DepositReport{
		FileName:      fmt.Sprintf("deposits_%s_%s.csv", from.Format("20060102"), to.Format("20060102")),
		From:          from,
		To:            to,
		Rows:          len(items),
		ApprovedTotal: total,
		CSV:           buf.Bytes(),
	}

	if s.uploader != nil {
		uri, err := s.uploader.Upload(ctx, report.FileName, "text/csv", bytes.NewReader(report.CSV))
		if err != nil {
			// the CSV is still returned to the caller
			s.log.Error().Err(err).Str("file", report.FileName).Msg("❌ report upload failed")
		} else {
			report.URI = uri
		}
	}

	s.log.Info().Int("rows", report.Rows).Str("approved_total", total.StringFixed(2)).Msg("📊 deposit report exported")
	return report, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
