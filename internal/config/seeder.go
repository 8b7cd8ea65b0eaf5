package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/password"
)

// Seeder handles first-run data
type Seeder struct {
	store *repositories.Store
	cfg   SeedConfig
	log   zerolog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(store *repositories.Store, cfg SeedConfig, log zerolog.Logger) *Seeder {
	return &Seeder{store: store, cfg: cfg, log: log}
}

// Run executes all seeders. Each seeder is skipped when its data already exists.
func (s *Seeder) Run(ctx context.Context) error {
	s.log.Info().Msg("🌱 Running seeders...")

	if err := s.seedAdmin(ctx); err != nil {
		s.log.Warn().Err(err).Msg("⚠️ admin seeder skipped")
	}
	if err := s.seedSettings(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	s.log.Info().Msg("✅ Seeding completed")
	return nil
}

// seedAdmin creates the first admin when no admin exists and credentials are configured
func (s *Seeder) seedAdmin(ctx context.Context) error {
	count, err := s.store.Members.Count(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if s.cfg.AdminPhone == "" || s.cfg.AdminPassword == "" {
		return errors.New("no admin exists and SEED_ADMIN_PHONE/SEED_ADMIN_PASSWORD are not set")
	}

	hash, err := password.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Member{
		ID:           uuid.NewString(),
		Name:         s.cfg.AdminName,
		Phone:        s.cfg.AdminPhone,
		PasswordHash: hash,
		Role:         string(domain.RoleAdmin),
		Status:       domain.MemberActive,
	}
	if err := s.store.Members.Create(ctx, admin); err != nil {
		return err
	}

	s.log.Info().Str("phone", admin.Phone).Msg("✅ Admin account created")
	return nil
}

var defaultSettings = map[string]any{
	models.SettingPay:        map[string]string{"bkash": "", "nagad": ""},
	models.SettingCollection: map[string]string{"startDate": "01", "endDate": "10"},
}

func (s *Seeder) seedSettings(ctx context.Context) error {
	for key, value := range defaultSettings {
		_, err := s.store.Settings.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if err := s.store.Settings.Put(ctx, &models.Setting{Key: key, Value: string(raw)}); err != nil {
			return err
		}
		s.log.Info().Str("key", key).Msg("🌱 default setting created")
	}
	return nil
}
