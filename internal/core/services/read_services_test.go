package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

func TestNoticeService(t *testing.T) {
	_, repos := newTestStore(t)
	svc := NewNoticeService(repos.Notices, repos.AuditLogs, nopLogger)
	ctx := context.Background()

	latest, err := svc.LatestNotice(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = svc.CreateNotice(ctx, CreateNoticeInput{Title: " ", Message: "x"}, admin)
	assert.ErrorIs(t, err, domain.ErrNoticeInvalid)

	svc.now = func() time.Time { return testNow }
	_, err = svc.CreateNotice(ctx, CreateNoticeInput{Title: "Meeting", Message: "Friday after Jummah"}, admin)
	require.NoError(t, err)
	svc.now = func() time.Time { return testNow.Add(time.Hour) }
	second, err := svc.CreateNotice(ctx, CreateNoticeInput{Title: "Eid", Message: "Office closed"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Karim", second.Author)

	latest, err = svc.LatestNotice(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	all, err := svc.ListNotices(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	logs, _ := repos.AuditLogs.ListRecent(ctx, string(domain.CategoryInfo), 10)
	assert.Len(t, logs, 2)
}

func TestNoticeService_Delete(t *testing.T) {
	_, repos := newTestStore(t)
	svc := NewNoticeService(repos.Notices, repos.AuditLogs, nopLogger)
	ctx := context.Background()

	svc.now = func() time.Time { return testNow }
	notice, err := svc.CreateNotice(ctx, CreateNoticeInput{Title: "Meeting", Message: "Friday"}, admin)
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(time.Minute) }
	require.NoError(t, svc.DeleteNotice(ctx, notice.ID, admin))

	all, err := svc.ListNotices(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = svc.DeleteNotice(ctx, notice.ID, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteNotice(ctx, "missing", admin), domain.ErrNoticeNotFound)

	logs, err := repos.AuditLogs.ListRecent(ctx, string(domain.CategoryInfo), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Notice deleted", logs[0].Action)
	assert.Equal(t, notice.ID, logs[0].RefID)
}

func TestNotificationService_Inbox(t *testing.T) {
	_, repos := newTestStore(t)
	svc := NewNotificationService(repos.Notifications, nopLogger)
	ctx := context.Background()
	for _, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, repos.Notifications.Create(ctx, &models.Notification{ID: id, Recipient: "m1", Title: id}))
	}

	inbox, err := svc.ListMine(ctx, "m1", 2)
	require.NoError(t, err)
	assert.Len(t, inbox.Items, 2)
	assert.Equal(t, int64(3), inbox.Unread)

	n, err := svc.MarkAllRead(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	unread, _ := svc.UnreadCount(ctx, "m1")
	assert.Zero(t, unread)

	empty, err := svc.ListMine(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
}

func TestBalanceAndDashboard(t *testing.T) {
	_, repos := newTestStore(t)
	ctx := context.Background()
	seedMember(t, repos, "m1", "1500")
	seedMember(t, repos, "m2", "500")
	seedPendingDeposit(t, repos, "d1", "m1", "100")

	ledger := NewLedgerService(repos.Ledger, nil, nil, nopLogger)
	loan, err := ledger.IssueLoan(ctx, IssueLoanInput{
		MemberID:       "m1",
		Principal:      dec("10000"),
		InterestRate:   dec("10"),
		DurationMonths: 12,
	}, admin)
	require.NoError(t, err)

	balances := NewBalanceService(repos.Members, repos.Loans)
	savings, err := balances.GetSavings(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, savings.TotalSavings.Equal(dec("1500")))

	summary, err := balances.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalSavings.Equal(dec("2000")))
	assert.True(t, summary.OutstandingLoans.Equal(dec("11000")))
	assert.Equal(t, int64(2), summary.Members)
	assert.Equal(t, int64(1), summary.ActiveLoans)

	_, err = balances.ListRepayments(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	repayments, err := balances.ListRepayments(ctx, loan.ID)
	require.NoError(t, err)
	assert.Empty(t, repayments)

	dash := NewDashboardService(repos)
	adminView, err := dash.GetAdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), adminView.TotalMembers)
	assert.Equal(t, int64(1), adminView.PendingDeposits)
	assert.Equal(t, int64(1), adminView.PendingTotal)
	assert.True(t, adminView.OutstandingLoans.Equal(dec("11000")))
	assert.NotEmpty(t, adminView.RecentActivity)

	memberView, err := dash.GetMemberDashboard(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, memberView.LoanBalance.Equal(dec("11000")))
	assert.Len(t, memberView.Recent, 1)
	assert.Nil(t, memberView.LatestNotice)
}

func TestAuditService_Limits(t *testing.T) {
	_, repos := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.AuditLogs.Create(ctx, &models.AuditLog{
			ID:        string(rune('a' + i)),
			Action:    "x",
			Type:      string(domain.CategoryInfo),
			Timestamp: testNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	svc := NewAuditService(repos.AuditLogs)
	items, err := svc.ListRecent(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)

	none, err := svc.ListRecent(ctx, string(domain.CategoryDanger), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
