package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// PaySettings are the receiving numbers shown to members
type PaySettings struct {
	Bkash string `json:"bkash"`
	Nagad string `json:"nagad"`
}

// CollectionConfig is the day-of-month window in which deposits are collected
type CollectionConfig struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// StartDay returns the window start as a day number, 0 when unset or invalid
func (c CollectionConfig) StartDay() int {
	return parseDay(c.StartDate)
}

// EndDay returns the window end as a day number, 0 when unset or invalid
func (c CollectionConfig) EndDay() int {
	return parseDay(c.EndDate)
}

func parseDay(s string) int {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || d < 1 || d > 31 {
		return 0
	}
	return d
}

var defaultCollectionConfig = CollectionConfig{StartDate: "01", EndDate: "10"}

// SettingsService reads and writes the somity-wide settings documents
type SettingsService struct {
	repo repositories.SettingRepository
	log  zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repositories.SettingRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		repo: repo,
		log:  log.With().Str("component", "settings").Logger(),
	}
}

// GetPaySettings returns the payment numbers; missing settings read as empty
func (s *SettingsService) GetPaySettings(ctx context.Context) (*PaySettings, error) {
	var out PaySettings
	if err := s.load(ctx, models.SettingPay, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutPaySettings replaces the payment numbers
func (s *SettingsService) PutPaySettings(ctx context.Context, in PaySettings) (*PaySettings, error) {
	in.Bkash = strings.TrimSpace(in.Bkash)
	in.Nagad = strings.TrimSpace(in.Nagad)
	if err := s.store(ctx, models.SettingPay, in); err != nil {
		return nil, err
	}
	return &in, nil
}

// GetCollectionConfig returns the collection window, defaulting to days 01 to 10
func (s *SettingsService) GetCollectionConfig(ctx context.Context) (*CollectionConfig, error) {
	out := defaultCollectionConfig
	if err := s.load(ctx, models.SettingCollection, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutCollectionConfig replaces the collection window
func (s *SettingsService) PutCollectionConfig(ctx context.Context, in CollectionConfig) (*CollectionConfig, error) {
	start, end := parseDay(in.StartDate), parseDay(in.EndDate)
	if start == 0 || end == 0 {
		return nil, fmt.Errorf("collection days must be between 01 and 31: %w", domain.ErrInvalidArgument)
	}
	if start > end {
		return nil, fmt.Errorf("collection start must not be after end: %w", domain.ErrInvalidArgument)
	}

	out := CollectionConfig{
		StartDate: fmt.Sprintf("%02d", start),
		EndDate:   fmt.Sprintf("%02d", end),
	}
	if err := s.store(ctx, models.SettingCollection, out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SettingsService) load(ctx context.Context, key string, dst any) error {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal([]byte(setting.Value), dst); err != nil {
		return fmt.Errorf("decode setting %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) store(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.repo.Put(ctx, &models.Setting{Key: key, Value: string(raw)}); err != nil {
		return err
	}
	s.log.Info().Str("key", key).Msg("⚙️ setting updated")
	return nil
}
