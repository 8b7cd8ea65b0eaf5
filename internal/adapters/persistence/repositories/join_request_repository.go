package repositories

import (
	"context"

	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// joinRequestRepository implements JoinRequestRepository interface
type joinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *models.JoinRequest) error {
	return mapError(r.db.WithContext(ctx).Create(req).Error, nil)
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, mapError(err, domain.ErrJoinRequestNotFound)
	}
	return &req, nil
}

// ListByStatus lists requests with status, oldest first
func (r *joinRequestRepository) ListByStatus(ctx context.Context, status string) ([]*models.JoinRequest, error) {
	var reqs []*models.JoinRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, mapError(err, nil)
}

func (r *joinRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JoinRequest{}).Where("status = ?", status).Count(&count).Error
	return count, mapError(err, nil)
}
