package services

import (
	"context"

	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
)

const defaultInboxLimit = 50

// NotificationService serves the in-app inbox
type NotificationService struct {
	repo repositories.NotificationRepository
	log  zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repositories.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		repo: repo,
		log:  log.With().Str("component", "inbox").Logger(),
	}
}

// Inbox is one member's notifications plus the unread count
type Inbox struct {
	Items  []*models.Notification `json:"items"`
	Unread int64                  `json:"unread"`
}

// ListMine returns the newest notifications addressed to recipientID
func (s *NotificationService) ListMine(ctx context.Context, recipientID string, limit int) (*Inbox, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultInboxLimit
	}

	items, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Notification{}
	}
	return &Inbox{Items: items, Unread: unread}, nil
}

// UnreadCount returns how many notifications are still unread
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkAllRead flags every notification of recipientID as read
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug().Str("recipient", recipientID).Int64("count", n).Msg("notifications marked read")
	}
	return n, nil
}
