package repositories

import (
	"context"

	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
)

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return mapError(r.db.WithContext(ctx).Create(n).Error, nil)
}

// ListByRecipient lists a member's inbox, newest first
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*models.Notification, error) {
	var items []*models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, mapError(err, nil)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipient string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient = ? AND `read` = ?", recipient, false).
		Count(&count).Error
	return count, mapError(err, nil)
}

// MarkAllRead flips every unread notification of recipient in one statement
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient = ? AND `read` = ?", recipient, false).
		Update("read", true)
	return res.RowsAffected, mapError(res.Error, nil)
}
