package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

const (
	tokenCleanupSpec = "0 3 * * *"
	cronJobTimeout   = 2 * time.Minute
)

// TokenCleaner removes expired refresh tokens
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// CronService runs the scheduled jobs
type CronService struct {
	cron          *cron.Cron
	reminderSpec  string
	members       repositories.MemberRepository
	notifications repositories.NotificationRepository
	settings      *SettingsService
	tokens        TokenCleaner
	notifier      Notifier
	log           zerolog.Logger
	now           func() time.Time
	newID         func() string
}

// NewCronService creates the scheduler. reminderSpec is a standard 5-field cron expression.
func NewCronService(
	reminderSpec string,
	store *repositories.Store,
	settings *SettingsService,
	tokens TokenCleaner,
	notifier Notifier,
	log zerolog.Logger,
) *CronService {
	return &CronService{
		cron:          cron.New(),
		reminderSpec:  reminderSpec,
		members:       store.Members,
		notifications: store.Notifications,
		settings:      settings,
		tokens:        tokens,
		notifier:      notifier,
		log:           log.With().Str("component", "cron").Logger(),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.reminderSpec, s.job("collection_reminder", func(ctx context.Context) error {
		n, err := s.RunCollectionReminder(ctx)
		if n > 0 {
			s.log.Info().Int("members", n).Msg("🔔 collection reminders sent")
		}
		return err
	})); err != nil {
		return fmt.Errorf("schedule collection reminder %q: %w", s.reminderSpec, err)
	}

	if s.tokens != nil {
		if _, err := s.cron.AddFunc(tokenCleanupSpec, s.job("token_cleanup", func(ctx context.Context) error {
			n, err := s.tokens.CleanupExpiredTokens(ctx)
			if n > 0 {
				s.log.Info().Int64("deleted", n).Msg("🧹 expired refresh tokens removed")
			}
			return err
		})); err != nil {
			return fmt.Errorf("schedule token cleanup: %w", err)
		}
	}

	s.cron.Start()
	s.log.Info().Str("reminder", s.reminderSpec).Msg("🚀 cron started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("🛑 cron stopped")
}

// RunCollectionReminder notifies every active member when today opens the
// collection window. It returns how many members were notified.
func (s *CronService) RunCollectionReminder(ctx context.Context) (int, error) {
	cfg, err := s.settings.GetCollectionConfig(ctx)
	if err != nil {
		return 0, err
	}
	today := s.now()
	if cfg.StartDay() == 0 || today.Day() != cfg.StartDay() {
		return 0, nil
	}

	members, err := s.members.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	title := "Collection window open"
	body := fmt.Sprintf("Deposits for %s are open from day %s to %s.", domain.PeriodLabel(today), cfg.StartDate, cfg.EndDate)

	sent := 0
	for _, m := range members {
		if m.Role != string(domain.RoleMember) {
			continue
		}
		n := &models.Notification{
			ID:        s.newID(),
			Recipient: m.ID,
			Title:     title,
			Body:      body,
			Type:      string(domain.CategoryInfo),
			CreatedAt: today,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return sent, err
		}
		if s.notifier != nil {
			s.notifier.Dispatch(eventFor(domain.EventCollectionOpen, n))
		}
		sent++
	}
	return sent, nil
}

func (s *CronService) job(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("❌ cron job failed")
		}
	}
}
