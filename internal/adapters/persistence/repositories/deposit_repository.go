package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// depositRepository implements DepositRepository interface
type depositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *gorm.DB) DepositRepository {
	return &depositRepository{db: db}
}

// Create inserts a pending deposit request
func (r *depositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	return mapError(r.db.WithContext(ctx).Create(deposit).Error, nil)
}

// GetByID gets a deposit by ID
func (r *depositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&deposit).Error; err != nil {
		return nil, mapError(err, domain.ErrDepositNotFound)
	}
	return &deposit, nil
}

// ListByStatus lists deposits with status, oldest first
func (r *depositRepository) ListByStatus(ctx context.Context, status string) ([]*models.Deposit, error) {
	var deposits []*models.Deposit
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&deposits).Error
	return deposits, mapError(err, nil)
}

// ListByUser lists a member's deposits, newest first
func (r *depositRepository) ListByUser(ctx context.Context, userID string) ([]*models.Deposit, error) {
	var deposits []*models.Deposit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&deposits).Error
	return deposits, mapError(err, nil)
}

// ListBetween lists deposits created in [from, to], oldest first
func (r *depositRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Deposit, error) {
	var deposits []*models.Deposit
	err := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at ASC").
		Find(&deposits).Error
	return deposits, mapError(err, nil)
}

// ExistsActiveTrxID checks whether a non-rejected deposit already carries trxID
func (r *depositRepository) ExistsActiveTrxID(ctx context.Context, trxID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("trx_id = ?", trxID).
		Where("status <> ?", string(domain.StatusRejected)).
		Count(&count).Error
	return count > 0, mapError(err, nil)
}

// CountByStatus counts deposits with status
func (r *depositRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("status = ?", status).Count(&count).Error
	return count, mapError(err, nil)
}
