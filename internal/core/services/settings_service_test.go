package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/core/domain"
)

func TestCollectionConfig_DefaultAndUpdate(t *testing.T) {
	_, repos := newTestStore(t)
	svc := NewSettingsService(repos.Settings, nopLogger)
	ctx := context.Background()

	cfg, err := svc.GetCollectionConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01", cfg.StartDate)
	assert.Equal(t, "10", cfg.EndDate)

	saved, err := svc.PutCollectionConfig(ctx, CollectionConfig{StartDate: "5", EndDate: "12"})
	require.NoError(t, err)
	assert.Equal(t, "05", saved.StartDate)

	cfg, err = svc.GetCollectionConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.StartDay())
	assert.Equal(t, 12, cfg.EndDay())
}

func TestCollectionConfig_Invalid(t *testing.T) {
	tests := []CollectionConfig{
		{StartDate: "0", EndDate: "10"},
		{StartDate: "01", EndDate: "32"},
		{StartDate: "x", EndDate: "10"},
		{StartDate: "15", EndDate: "10"},
	}

	_, repos := newTestStore(t)
	svc := NewSettingsService(repos.Settings, nopLogger)
	for _, in := range tests {
		_, err := svc.PutCollectionConfig(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "%+v", in)
	}
}

func TestPaySettings(t *testing.T) {
	_, repos := newTestStore(t)
	svc := NewSettingsService(repos.Settings, nopLogger)
	ctx := context.Background()

	empty, err := svc.GetPaySettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Bkash)

	_, err = svc.PutPaySettings(ctx, PaySettings{Bkash: " 01711000000 ", Nagad: "01811000000"})
	require.NoError(t, err)

	got, err := svc.GetPaySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01711000000", got.Bkash)
	assert.Equal(t, "01811000000", got.Nagad)
}
