package services

import (
	"context"

	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// BalanceService is the read side of savings and loan balances
type BalanceService struct {
	members repositories.MemberRepository
	loans   repositories.LoanRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(members repositories.MemberRepository, loans repositories.LoanRepository) *BalanceService {
	return &BalanceService{members: members, loans: loans}
}

// SavingsBalance is one member's savings position
type SavingsBalance struct {
	MemberID      string          `json:"member_id"`
	Name          string          `json:"name"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	MonthlyTarget decimal.Decimal `json:"monthly_target"`
}

// LedgerSummary totals the whole somity
type LedgerSummary struct {
	TotalSavings     decimal.Decimal `json:"total_savings"`
	OutstandingLoans decimal.Decimal `json:"outstanding_loans"`
	Members          int64           `json:"members"`
	ActiveLoans      int64           `json:"active_loans"`
}

// GetSavings returns a member's current savings
func (s *BalanceService) GetSavings(ctx context.Context, memberID string) (*SavingsBalance, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &SavingsBalance{
		MemberID:      m.ID,
		Name:          m.Name,
		TotalSavings:  m.TotalSavings,
		MonthlyTarget: m.MonthlyTarget,
	}, nil
}

// GetLoanBalance returns a loan with its remaining balance
func (s *BalanceService) GetLoanBalance(ctx context.Context, loanID string) (*models.Loan, error) {
	return s.loans.GetByID(ctx, loanID)
}

// ListActiveLoans returns loans that still have money owed
func (s *BalanceService) ListActiveLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.loans.ListActive(ctx)
}

// ListMemberLoans returns every loan of one member, newest first
func (s *BalanceService) ListMemberLoans(ctx context.Context, memberID string) ([]*models.Loan, error) {
	return s.loans.ListByUser(ctx, memberID)
}

// ListRepayments returns the repayments of one loan, newest first
func (s *BalanceService) ListRepayments(ctx context.Context, loanID string) ([]*models.Repayment, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.loans.ListRepayments(ctx, loanID)
}

// Summary totals savings and outstanding loans
func (s *BalanceService) Summary(ctx context.Context) (*LedgerSummary, error) {
	savings, err := s.members.SumSavings(ctx)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.loans.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.members.Count(ctx, string(domain.RoleMember))
	if err != nil {
		return nil, err
	}
	active, err := s.loans.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerSummary{
		TotalSavings:     savings,
		OutstandingLoans: outstanding,
		Members:          members,
		ActiveLoans:      active,
	}, nil
}
