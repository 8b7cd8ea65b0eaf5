package legacy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/memory"
	"somity-ledger/internal/core/domain"
)

const sampleExport = `{
  "users": {
    "u1": {"name": "Karim", "phone": "01711223344", "totalSavings": 1500, "monthlyTarget": 500, "role": "member", "regNo": "100001"},
    "u2": {"name": "Broken"}
  },
  "memberRequests": {
    "q1": {"name": "Salma", "phone": "01811223344", "password": "secret1", "regNo": "100002", "status": "pending"}
  },
  "deposits": {
    "d1": {"userId": "u1", "userName": "Karim", "amount": 500, "method": "Bkash", "trxId": "AB12", "forMonth": "March 2025", "status": "pending"}
  },
  "loans": {
    "l1": {"userId": "u1", "memberName": "Karim", "amount": 10000, "interestRate": 10, "duration": 12,
           "totalPayable": 11000, "monthlyInstallment": 916.67, "remainingBalance": 10000}
  },
  "repayments": {
    "r1": {"loanId": "l1", "userId": "u1", "paidAmount": 1000, "collectedBy": "Admin"}
  },
  "settings": {
    "pay_settings": {"bkash": "01700000000", "nagad": "01800000000"}
  },
  "fcmTokens": {"x": {}}
}`

func fakeHash(p string) (string, error) { return "h:" + p, nil }

func TestImporter_Run(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	im, err := NewImporter(repos, fakeHash, "changeme", zerolog.Nop())
	require.NoError(t, err)

	exp := decode(t, sampleExport)
	res, err := im.Run(ctx, exp)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported[CollectionUsers])
	assert.Equal(t, 1, res.Failed[CollectionUsers])
	assert.Equal(t, 1, res.Imported[CollectionDeposits])
	assert.Equal(t, 1, res.Imported[CollectionLoans])
	assert.Equal(t, 1, res.Imported[CollectionSettings])

	m, err := repos.Members.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h:changeme", m.PasswordHash)
	assert.Equal(t, "1500", m.TotalSavings.String())

	req, err := repos.JoinRequests.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "h:secret1", req.PasswordHash)

	loan, err := repos.Loans.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "10000", loan.RemainingBalance.String())

	reps, err := repos.Loans.ListRepayments(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, reps, 1)

	pending, err := repos.Deposits.ListByStatus(ctx, string(domain.StatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bkash", pending[0].Method)
}

func TestImporter_RerunSkipsExisting(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	im, err := NewImporter(repos, fakeHash, "changeme", zerolog.Nop())
	require.NoError(t, err)
	exp := decode(t, sampleExport)

	_, err = im.Run(ctx, exp)
	require.NoError(t, err)
	res, err := im.Run(ctx, exp)
	require.NoError(t, err)

	assert.Zero(t, res.Imported[CollectionUsers])
	assert.Equal(t, 1, res.Skipped[CollectionUsers])
	assert.Equal(t, 1, res.Skipped[CollectionDeposits])
	assert.Equal(t, 1, res.Skipped[CollectionLoans])

	// balances are not doubled by a second run
	m, _ := repos.Members.GetByID(ctx, "u1")
	assert.Equal(t, "1500", m.TotalSavings.String())
}

func TestNewImporter_ShortPassword(t *testing.T) {
	_, err := NewImporter(memory.NewStore().Repositories(), fakeHash, "123", zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestResult_Total(t *testing.T) {
	res := newResult()
	res.Imported["a"] = 2
	res.Imported["b"] = 3
	res.Failed["a"] = 1
	imported, skipped, failed := res.Total()
	assert.Equal(t, 5, imported)
	assert.Zero(t, skipped)
	assert.Equal(t, 1, failed)
}
