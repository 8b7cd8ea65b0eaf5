package services

import (
	"context"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditService reads the activity log
type AuditService struct {
	repo repositories.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// ListRecent returns the newest entries, optionally of one type
func (s *AuditService) ListRecent(ctx context.Context, logType string, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	items, err := s.repo.ListRecent(ctx, logType, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.AuditLog{}
	}
	return items, nil
}
