package services

import (
	"context"
	"testing"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSettings(t *testing.T) (*SettingsService, *repository.MemoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewMemoryStore()
	return NewSettingsService(store, client, time.Minute, zap.NewNop()), store, mr
}

func TestSettings_ReadThroughCache(t *testing.T) {
	svc, store, mr := setupSettings(t)
	ctx := context.Background()
	require.NoError(t, store.PutSetting(ctx, models.SettingVATRate, "7"))

	assert.Equal(t, "7", svc.Get(ctx, models.SettingVATRate, "0"))
	cached, err := mr.Get(settingsCachePrefix + models.SettingVATRate)
	require.NoError(t, err)
	assert.Equal(t, "7", cached)

	// a write that bypasses the service is not seen until invalidation
	require.NoError(t, store.PutSetting(ctx, models.SettingVATRate, "9"))
	assert.Equal(t, "7", svc.Get(ctx, models.SettingVATRate, "0"))

	require.NoError(t, svc.Invalidate(ctx, models.SettingVATRate))
	assert.Equal(t, "9", svc.Get(ctx, models.SettingVATRate, "0"))
}

func TestSettings_UpdateInvalidates(t *testing.T) {
	svc, _, mr := setupSettings(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, models.SettingCurrencySymbol, "€"))
	assert.Equal(t, "€", svc.Get(ctx, models.SettingCurrencySymbol, "$"))

	require.NoError(t, svc.Update(ctx, models.SettingCurrencySymbol, "£"))
	assert.False(t, mr.Exists(settingsCachePrefix+models.SettingCurrencySymbol))
	assert.Equal(t, "£", svc.Get(ctx, models.SettingCurrencySymbol, "$"))

	assert.ErrorIs(t, svc.Update(ctx, "  ", "x"), ErrValidation)
}

func TestSettings_DefaultsAndCacheOutage(t *testing.T) {
	svc, store, mr := setupSettings(t)
	ctx := context.Background()

	assert.Equal(t, "fallback", svc.Get(ctx, "missing_key", "fallback"))

	require.NoError(t, store.PutSetting(ctx, models.SettingSiteName, "Seaside"))
	mr.SetError("LOADING Redis is loading the dataset in memory")
	assert.Equal(t, "Seaside", svc.Get(ctx, models.SettingSiteName, "Hotel"))
	assert.NoError(t, svc.Update(ctx, models.SettingSiteName, "Harbour"))
	assert.Equal(t, "Harbour", svc.Get(ctx, models.SettingSiteName, "Hotel"))
}

func TestSettings_WithoutCache(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewSettingsService(store, nil, 0, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, models.SettingVATEnabled, "yes"))
	assert.Equal(t, "yes", svc.Get(ctx, models.SettingVATEnabled, "0"))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.SettingVATEnabled, all[0].Key)
}

func TestLoadPricingSettings(t *testing.T) {
	ps := LoadPricingSettings(context.Background(), staticSettings{
		models.SettingVATEnabled:             "on",
		models.SettingVATRate:                "16.5",
		models.SettingDefaultChildMultiplier: "25",
	})
	assert.True(t, ps.VATEnabled)
	assert.Equal(t, "16.5", ps.VATRate.String())
	assert.Equal(t, 25.0, ps.DefaultChildMultiplier)
	assert.Equal(t, "$", ps.CurrencySymbol)

	ps = LoadPricingSettings(context.Background(), staticSettings{
		models.SettingVATRate:                "-3",
		models.SettingDefaultChildMultiplier: "abc",
	})
	assert.False(t, ps.VATEnabled)
	assert.True(t, ps.VATRate.IsZero())
	assert.Equal(t, DefaultChildPriceMultiplier, ps.DefaultChildMultiplier)
}
