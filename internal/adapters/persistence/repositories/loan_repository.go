package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// loanRepository implements LoanRepository interface (read side)
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		return nil, mapError(err, domain.ErrLoanNotFound)
	}
	return &loan, nil
}

// ListActive lists loans that still have a balance, newest first
func (r *loanRepository) ListActive(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("remaining_balance > 0").
		Order("created_at DESC").
		Find(&loans).Error
	return loans, mapError(err, nil)
}

// ListByUser lists every loan of a member, newest first
func (r *loanRepository) ListByUser(ctx context.Context, userID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, mapError(err, nil)
}

// ListRepayments lists repayments of a loan, newest first
func (r *loanRepository) ListRepayments(ctx context.Context, loanID string) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC").
		Find(&repayments).Error
	return repayments, mapError(err, nil)
}

func (r *loanRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("remaining_balance > 0").Count(&count).Error
	return count, mapError(err, nil)
}

// SumOutstanding totals remaining_balance over all loans
func (r *loanRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(remaining_balance), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError(err, nil)
	}
	return sum, nil
}
