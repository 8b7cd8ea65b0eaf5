package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

const defaultNoticeLimit = 20

// NoticeService runs the notice board
type NoticeService struct {
	notices repositories.NoticeRepository
	audit   repositories.AuditLogRepository
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewNoticeService creates a new notice service
func NewNoticeService(notices repositories.NoticeRepository, audit repositories.AuditLogRepository, log zerolog.Logger) *NoticeService {
	return &NoticeService{
		notices: notices,
		audit:   audit,
		log:     log.With().Str("component", "notices").Logger(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// CreateNoticeInput represents a new announcement
type CreateNoticeInput struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CreateNotice publishes a notice and records who published it
func (s *NoticeService) CreateNotice(ctx context.Context, input CreateNoticeInput, actor domain.Actor) (*models.Notice, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return nil, domain.ErrNoticeInvalid
	}

	now := s.now()
	notice := &models.Notice{
		ID:        s.newID(),
		Title:     title,
		Message:   message,
		Author:    actor.DisplayName(),
		CreatedAt: now,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}

	if err := s.audit.Create(ctx, &models.AuditLog{
		ID:        s.newID(),
		ActorID:   actor.ID,
		AdminName: actor.DisplayName(),
		Action:    "Notice published",
		Details:   fmt.Sprintf("Title: %q", title),
		Type:      string(domain.CategoryInfo),
		RefID:     notice.ID,
		Timestamp: now,
	}); err != nil {
		s.log.Error().Err(err).Str("notice_id", notice.ID).Msg("❌ audit write failed")
	}

	s.log.Info().Str("notice_id", notice.ID).Msg("📢 notice published")
	return notice, nil
}

// DeleteNotice takes a notice off the board
func (s *NoticeService) DeleteNotice(ctx context.Context, id string, actor domain.Actor) error {
	if err := s.notices.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.audit.Create(ctx, &models.AuditLog{
		ID:        s.newID(),
		ActorID:   actor.ID,
		AdminName: actor.DisplayName(),
		Action:    "Notice deleted",
		Details:   fmt.Sprintf("Notice %s", id),
		Type:      string(domain.CategoryInfo),
		RefID:     id,
		Timestamp: s.now(),
	}); err != nil {
		s.log.Error().Err(err).Str("notice_id", id).Msg("❌ audit write failed")
	}

	s.log.Info().Str("notice_id", id).Msg("🗑️ notice deleted")
	return nil
}

// ListNotices returns the newest notices first
func (s *NoticeService) ListNotices(ctx context.Context, limit int) ([]*models.Notice, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultNoticeLimit
	}
	items, err := s.notices.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Notice{}
	}
	return items, nil
}

// LatestNotice returns the most recent notice, or nil when the board is empty
func (s *NoticeService) LatestNotice(ctx context.Context) (*models.Notice, error) {
	items, err := s.notices.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}
