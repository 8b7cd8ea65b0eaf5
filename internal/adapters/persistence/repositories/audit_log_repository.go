package repositories

import (
	"context"

	"gorm.io/gorm"

	"somity-ledger/internal/adapters/persistence/models"
)

// auditLogRepository implements AuditLogRepository interface
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return mapError(r.db.WithContext(ctx).Create(entry).Error, nil)
}

// ListRecent lists newest entries, optionally of one type
func (r *auditLogRepository) ListRecent(ctx context.Context, logType string, limit int) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	query := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if logType != "" {
		query = query.Where("type = ?", logType)
	}
	err := query.Find(&entries).Error
	return entries, mapError(err, nil)
}
