package repositories

import (
	"context"

	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/core/domain"
)

// noticeRepository implements NoticeRepository interface
type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return mapError(r.db.WithContext(ctx).Create(notice).Error, nil)
}

// List lists notices newest first
func (r *noticeRepository) List(ctx context.Context, limit int) ([]*models.Notice, error) {
	var notices []*models.Notice
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&notices).Error
	return notices, mapError(err, nil)
}

// Delete removes a notice; an unknown id is ErrNoticeNotFound
func (r *noticeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notice{})
	if res.Error != nil {
		return mapError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoticeNotFound
	}
	return nil
}
