package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

func seedMember(t *testing.T, repos *repositories.Store, id, phone string, savings int64) {
	t.Helper()
	require.NoError(t, repos.Members.Create(context.Background(), &models.Member{
		ID:           id,
		Name:         "Member " + id,
		Phone:        phone,
		Role:         string(domain.RoleMember),
		TotalSavings: decimal.NewFromInt(savings),
	}))
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	seedMember(t, repos, "m1", "01700000001", 100)
	ctx := context.Background()

	err := store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		return tx.UpdateMemberSavings("m1", decimal.NewFromInt(150), time.Now())
	})
	require.NoError(t, err)

	m, err := repos.Members.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, m.TotalSavings.Equal(decimal.NewFromInt(150)))
	assert.NotNil(t, m.LastDepositAt)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	seedMember(t, repos, "m1", "01700000001", 100)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		require.NoError(t, tx.UpdateMemberSavings("m1", decimal.NewFromInt(999), time.Now()))
		require.NoError(t, tx.CreateAuditLog(&models.AuditLog{ID: "a1", Action: "x"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, _ := repos.Members.GetByID(ctx, "m1")
	assert.True(t, m.TotalSavings.Equal(decimal.NewFromInt(100)))
	logs, _ := repos.AuditLogs.ListRecent(ctx, "", 10)
	assert.Empty(t, logs)
}

func TestRunInTx_FailNextCommit(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	seedMember(t, repos, "m1", "01700000001", 100)
	ctx := context.Background()

	store.FailNextCommit(domain.ErrTransientStore)
	err := store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		return tx.UpdateMemberSavings("m1", decimal.NewFromInt(200), time.Now())
	})
	assert.ErrorIs(t, err, domain.ErrTransientStore)

	m, _ := repos.Members.GetByID(ctx, "m1")
	assert.True(t, m.TotalSavings.Equal(decimal.NewFromInt(100)))

	// only the next commit fails
	err = store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		return tx.UpdateMemberSavings("m1", decimal.NewFromInt(200), time.Now())
	})
	assert.NoError(t, err)
}

func TestRunInTx_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.RunInTx(ctx, func(tx repositories.LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransientStore)
	assert.False(t, called)
}

func TestLedgerTx_NotFound(t *testing.T) {
	store := NewStore()
	err := store.RunInTx(context.Background(), func(tx repositories.LedgerTx) error {
		_, err := tx.GetDepositForUpdate("missing")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrDepositNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMembers_PhoneUnique(t *testing.T) {
	repos := NewStore().Repositories()
	seedMember(t, repos, "m1", "01700000001", 0)

	err := repos.Members.Create(context.Background(), &models.Member{ID: "m2", Phone: "01700000001"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMembers_UpdateProfileKeepsBalance(t *testing.T) {
	repos := NewStore().Repositories()
	seedMember(t, repos, "m1", "01700000001", 500)
	ctx := context.Background()

	target := decimal.NewFromInt(1000)
	name := "Renamed"
	require.NoError(t, repos.Members.UpdateProfile(ctx, "m1", repositories.ProfileUpdate{
		Name:          &name,
		MonthlyTarget: &target,
	}))

	m, _ := repos.Members.GetByID(ctx, "m1")
	assert.Equal(t, "Renamed", m.Name)
	assert.True(t, m.MonthlyTarget.Equal(target))
	assert.True(t, m.TotalSavings.Equal(decimal.NewFromInt(500)))
}

func TestMembers_ListFilters(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Members.Create(ctx, &models.Member{ID: "a", Name: "Karim", Phone: "01700000001", Role: "member"}))
	require.NoError(t, repos.Members.Create(ctx, &models.Member{ID: "b", Name: "Abdul", Phone: "01700000002", Role: "member"}))
	require.NoError(t, repos.Members.Create(ctx, &models.Member{ID: "c", Name: "Cashier", Phone: "01700000003", Role: "cashier"}))

	all, total, err := repos.Members.List(ctx, repositories.MemberFilter{Role: "member"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Abdul", all[0].Name)

	found, total, _ := repos.Members.List(ctx, repositories.MemberFilter{Search: "kar"}, 0, 10)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "a", found[0].ID)

	page, total, _ := repos.Members.List(ctx, repositories.MemberFilter{}, 2, 10)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestDeposits_Ordering(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"d2", "d1", "d3"} {
		require.NoError(t, repos.Deposits.Create(ctx, &models.Deposit{
			ID:        id,
			UserID:    "m1",
			Amount:    decimal.NewFromInt(100),
			Status:    string(domain.StatusPending),
			TrxID:     "TRX" + id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	pending, err := repos.Deposits.ListByStatus(ctx, string(domain.StatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "d2", pending[0].ID)
	assert.Equal(t, "d3", pending[2].ID)

	history, _ := repos.Deposits.ListByUser(ctx, "m1")
	assert.Equal(t, "d3", history[0].ID)

	exists, _ := repos.Deposits.ExistsActiveTrxID(ctx, "TRXd1")
	assert.True(t, exists)
}

func TestNotifications_MarkAllRead(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Notifications.Create(ctx, &models.Notification{ID: "n1", Recipient: "m1", Title: "a"}))
	require.NoError(t, repos.Notifications.Create(ctx, &models.Notification{ID: "n2", Recipient: "m1", Title: "b"}))
	require.NoError(t, repos.Notifications.Create(ctx, &models.Notification{ID: "n3", Recipient: "m2", Title: "c"}))

	n, err := repos.Notifications.MarkAllRead(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unread, _ := repos.Notifications.CountUnread(ctx, "m1")
	assert.Zero(t, unread)
	unread, _ = repos.Notifications.CountUnread(ctx, "m2")
	assert.Equal(t, int64(1), unread)
}

func TestRefreshTokens_Revoke(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.RefreshTokens.Create(ctx, &models.RefreshToken{
		ID:        "t1",
		UserID:    "m1",
		TokenHash: "h1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := repos.RefreshTokens.GetByTokenHash(ctx, "h1")
	require.NoError(t, err)

	require.NoError(t, repos.RefreshTokens.RevokeAllByUserID(ctx, "m1"))
	_, err = repos.RefreshTokens.GetByTokenHash(ctx, "h1")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
