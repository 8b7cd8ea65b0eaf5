package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

type fakeUploader struct {
	name string
	body []byte
	err  error
}

func (u *fakeUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.name = name
	u.body, _ = io.ReadAll(r)
	return "gs://reports/" + name, nil
}

func seedReportDeposits(t *testing.T) *ReportService {
	t.Helper()
	_, repos := newTestStore(t)
	ctx := context.Background()
	day := func(d, h int) time.Time { return time.Date(2025, 3, d, h, 0, 0, 0, time.UTC) }

	rows := []models.Deposit{
		{ID: "d1", UserName: "Karim", Amount: dec("500"), Method: "bkash", Status: "approved", CreatedAt: day(1, 9)},
		{ID: "d2", UserName: "Salma", Amount: dec("300"), Method: "", Status: "approved", CreatedAt: day(5, 23)},
		{ID: "d3", UserName: "Rafiq", Amount: dec("200"), Method: "nagad", Status: "pending", CreatedAt: day(5, 10)},
		{ID: "d4", UserName: "Late", Amount: dec("999"), Method: "cash", Status: "approved", CreatedAt: day(6, 0)},
	}
	for i := range rows {
		require.NoError(t, repos.Deposits.Create(ctx, &rows[i]))
	}
	return NewReportService(repos.Deposits, nil, nopLogger)
}

func TestExportDeposits(t *testing.T) {
	svc := seedReportDeposits(t)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	report, err := svc.ExportDeposits(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Rows)
	assert.True(t, report.ApprovedTotal.Equal(dec("800")))
	assert.Equal(t, "deposits_20250301_20250305.csv", report.FileName)

	records, err := csv.NewReader(bytes.NewReader(report.CSV)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Member Name", "Amount", "Method", "Status", "Date"}, records[0])
	assert.Equal(t, []string{"Karim", "500.00", "bkash", "approved", "01/03/2025"}, records[1])

	var salma []string
	for _, r := range records[1:] {
		if r[0] == "Salma" {
			salma = r
		}
	}
	require.NotNil(t, salma, "end date must include the whole day")
	assert.Equal(t, "Cash", salma[2])
}

func TestExportDeposits_InvalidRange(t *testing.T) {
	svc := seedReportDeposits(t)
	_, err := svc.ExportDeposits(context.Background(),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestExportDeposits_Upload(t *testing.T) {
	svc := seedReportDeposits(t)
	up := &fakeUploader{}
	svc.uploader = up
	svc.now = func() time.Time { return time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC) }

	report, err := svc.ExportDeposits(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, "gs://reports/"+report.FileName, report.URI)
	assert.Equal(t, report.CSV, up.body)
}

func TestExportDeposits_UploadFailureKeepsReport(t *testing.T) {
	svc := seedReportDeposits(t)
	svc.uploader = &fakeUploader{err: errors.New("bucket missing")}

	report, err := svc.ExportDeposits(context.Background(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, report.URI)
	assert.NotEmpty(t, report.CSV)
}
