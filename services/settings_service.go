package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsProvider is the key/value configuration store.
type SettingsProvider interface {
	Get(ctx context.Context, key, def string) string
	Update(ctx context.Context, key, value string) error
	Invalidate(ctx context.Context, key string) error
}

const settingsCachePrefix = "settings:"

// SettingsService reads settings through an optional Redis cache. A cache
// outage only costs a database read.
type SettingsService struct {
	repo   repository.SettingRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *SettingsService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SettingsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context, key, def string) string {
	if s.cache != nil {
		v, err := s.cache.Get(ctx, settingsCachePrefix+key).Result()
		if err == nil {
			return v
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	st, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("settings read failed", zap.String("key", key), zap.Error(err))
		}
		return def
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingsCachePrefix+key, st.Value, s.ttl).Err(); err != nil {
			s.logger.Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return st.Value
}

func (s *SettingsService) Update(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return validationErr("setting key is required")
	}
	if err := s.repo.PutSetting(ctx, key, value); err != nil {
		return dbErr("save setting "+key, err)
	}
	return s.Invalidate(ctx, key)
}

func (s *SettingsService) Invalidate(ctx context.Context, key string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, settingsCachePrefix+key).Err(); err != nil {
		s.logger.Warn("settings cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// All returns every stored setting straight from the database.
func (s *SettingsService) All(ctx context.Context) ([]models.Setting, error) {
	list, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, dbErr("list settings", err)
	}
	return list, nil
}

// PricingSettings are the settings the pricing calculator needs, resolved
// once per operation and passed explicitly.
type PricingSettings struct {
	CurrencySymbol         string
	VATEnabled             bool
	VATRate                decimal.Decimal
	DefaultChildMultiplier float64
}

func LoadPricingSettings(ctx context.Context, sp SettingsProvider) PricingSettings {
	ps := PricingSettings{
		CurrencySymbol:         sp.Get(ctx, models.SettingCurrencySymbol, "$"),
		VATEnabled:             parseBool(sp.Get(ctx, models.SettingVATEnabled, "0")),
		VATRate:                decimal.Zero,
		DefaultChildMultiplier: DefaultChildPriceMultiplier,
	}
	if rate, err := decimal.NewFromString(strings.TrimSpace(sp.Get(ctx, models.SettingVATRate, "0"))); err == nil && !rate.IsNegative() {
		ps.VATRate = rate
	}
	if m, err := strconv.ParseFloat(strings.TrimSpace(sp.Get(ctx, models.SettingDefaultChildMultiplier, "")), 64); err == nil && m >= 0 {
		ps.DefaultChildMultiplier = m
	}
	return ps
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
