package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/memory"
	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

var (
	testNow   = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	cashier   = domain.Actor{ID: "staff-1", Name: "Rahim", Role: domain.RoleCashier}
	admin     = domain.Actor{ID: "admin-1", Name: "Karim", Role: domain.RoleAdmin}
	nopLogger = zerolog.Nop()

	phoneSeq atomic.Int64
)

// countingQueue records Signal calls
type countingQueue struct{ n atomic.Int32 }

func (q *countingQueue) Signal() { q.n.Add(1) }

func newTestStore(t *testing.T) (*memory.Store, *repositories.Store) {
	t.Helper()
	store := memory.NewStore()
	return store, store.Repositories()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedMember(t *testing.T, repos *repositories.Store, id, savings string) {
	t.Helper()
	require.NoError(t, repos.Members.Create(context.Background(), &models.Member{
		ID:           id,
		Name:         "Member " + id,
		Phone:        fmt.Sprintf("017%08d", phoneSeq.Add(1)),
		Role:         string(domain.RoleMember),
		TotalSavings: dec(savings),
		Status:       domain.MemberActive,
	}))
}

func seedPendingDeposit(t *testing.T, repos *repositories.Store, id, memberID, amount string) {
	t.Helper()
	require.NoError(t, repos.Deposits.Create(context.Background(), &models.Deposit{
		ID:        id,
		UserID:    memberID,
		UserName:  "Member " + memberID,
		Amount:    dec(amount),
		Method:    domain.MethodBkash,
		TrxID:     "TRX-" + id,
		ForMonth:  "March 2025",
		Status:    string(domain.StatusPending),
		CreatedAt: testNow.Add(-time.Hour),
	}))
}

func savingsOf(t *testing.T, repos *repositories.Store, memberID string) decimal.Decimal {
	t.Helper()
	m, err := repos.Members.GetByID(context.Background(), memberID)
	require.NoError(t, err)
	return m.TotalSavings
}
