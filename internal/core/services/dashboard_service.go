package services

import (
	"context"

	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

const recentActivityLimit = 10

// DashboardService handles dashboard operations
type DashboardService struct {
	store *repositories.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{store: store}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalMembers        int64 `json:"total_members"`
	TotalCashiers       int64 `json:"total_cashiers"`
	TotalAdmins         int64 `json:"total_admins"`
	PendingDeposits     int64 `json:"pending_deposits"`
	PendingJoinRequests int64 `json:"pending_join_requests"`
	// badge shown on the admin bell
	PendingTotal        int64 `json:"pending_total"`

	ActiveLoans      int64           `json:"active_loans"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
	OutstandingLoans decimal.Decimal `json:"outstanding_loans"`

	RecentActivity []*models.AuditLog `json:"recent_activity"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	var err error

	if data.TotalMembers, err = s.store.Members.Count(ctx, string(domain.RoleMember)); err != nil {
		return nil, err
	}
	if data.TotalCashiers, err = s.store.Members.Count(ctx, string(domain.RoleCashier)); err != nil {
		return nil, err
	}
	if data.TotalAdmins, err = s.store.Members.Count(ctx, string(domain.RoleAdmin)); err != nil {
		return nil, err
	}
	if data.PendingDeposits, err = s.store.Deposits.CountByStatus(ctx, string(domain.StatusPending)); err != nil {
		return nil, err
	}
	if data.PendingJoinRequests, err = s.store.JoinRequests.CountByStatus(ctx, string(domain.StatusPending)); err != nil {
		return nil, err
	}
	data.PendingTotal = data.PendingDeposits + data.PendingJoinRequests

	if data.ActiveLoans, err = s.store.Loans.CountActive(ctx); err != nil {
		return nil, err
	}
	if data.TotalSavings, err = s.store.Members.SumSavings(ctx); err != nil {
		return nil, err
	}
	if data.OutstandingLoans, err = s.store.Loans.SumOutstanding(ctx); err != nil {
		return nil, err
	}

	if data.RecentActivity, err = s.store.AuditLogs.ListRecent(ctx, "", recentActivityLimit); err != nil {
		return nil, err
	}
	if data.RecentActivity == nil {
		data.RecentActivity = []*models.AuditLog{}
	}

	return data, nil
}

// ============================================================
// Member Dashboard
// ============================================================

// MemberDashboardData is the member home screen
type MemberDashboardData struct {
	Member        *models.Member         `json:"member"`
	TotalSavings  decimal.Decimal        `json:"total_savings"`
	MonthlyTarget decimal.Decimal        `json:"monthly_target"`
	LoanBalance   decimal.Decimal        `json:"loan_balance"`
	Unread        int64                  `json:"unread_notifications"`
	Recent        []*models.Deposit      `json:"recent_deposits"`
	LatestNotice  *models.Notice         `json:"latest_notice,omitempty"`
	Inbox         []*models.Notification `json:"notifications"`
}

// GetMemberDashboard returns the home screen of one member
func (s *DashboardService) GetMemberDashboard(ctx context.Context, memberID string) (*MemberDashboardData, error) {
	member, err := s.store.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	data := &MemberDashboardData{
		Member:        member,
		TotalSavings:  member.TotalSavings,
		MonthlyTarget: member.MonthlyTarget,
		LoanBalance:   decimal.Zero,
	}

	loans, err := s.store.Loans.ListByUser(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		data.LoanBalance = data.LoanBalance.Add(l.RemainingBalance)
	}

	deposits, err := s.store.Deposits.ListByUser(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(deposits) > recentActivityLimit {
		deposits = deposits[:recentActivityLimit]
	}
	if deposits == nil {
		deposits = []*models.Deposit{}
	}
	data.Recent = deposits

	if data.Unread, err = s.store.Notifications.CountUnread(ctx, memberID); err != nil {
		return nil, err
	}
	if data.Inbox, err = s.store.Notifications.ListByRecipient(ctx, memberID, 5); err != nil {
		return nil, err
	}

	notices, err := s.store.Notices.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(notices) > 0 {
		data.LatestNotice = notices[0]
	}

	return data, nil
}
