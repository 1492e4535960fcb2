// Package settings keeps the live economics settings. Reads go through an
// optional Redis cache to the affiliate_settings table; a failed reload keeps
// serving the last good snapshot.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/monitoring"
)

// ErrInvalidSettings wraps rejected admin updates.
var ErrInvalidSettings = errors.New("invalid settings")

// Store is the durable settings source.
type Store interface {
	SettingsMap(ctx context.Context) (map[string]string, error)
	UpsertSettings(ctx context.Context, values map[string]string, updatedBy uint) error
}

type Provider struct {
	store Store
	cache Cache
	ttl   time.Duration
	log   *zap.Logger

	mu       sync.RWMutex
	engine   *economics.Engine
	loadedAt time.Time
}

// NewProvider starts out on the default settings until the first Reload.
// cache may be nil.
func NewProvider(store Store, cache Cache, ttl time.Duration, log *zap.Logger) *Provider {
	engine, err := economics.NewEngine(economics.DefaultSettings())
	if err != nil {
		panic(fmt.Sprintf("default settings are invalid: %v", err))
	}
	return &Provider{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		log:    log,
		engine: engine,
	}
}

// Engine returns the engine over the current snapshot. Callers should use one
// Engine for the whole of a computation.
func (p *Provider) Engine() *economics.Engine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engine
}

func (p *Provider) Current() economics.Settings {
	return p.Engine().Settings()
}

// LoadedAt is the time of the last successful reload, zero before the first.
func (p *Provider) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}

// Reload re-reads the settings. Missing keys fall back to their default;
// malformed values fail the reload.
func (p *Provider) Reload(ctx context.Context) error {
	values, source, err := p.load(ctx)
	if err != nil {
		monitoring.SettingsReloadsTotal.WithLabelValues("failed", source).Inc()
		p.log.Error("settings reload failed, keeping previous settings", zap.String("source", source), zap.Error(err))
		return err
	}

	s, defaulted, err := economics.ParseSettings(values)
	if err != nil {
		monitoring.SettingsReloadsTotal.WithLabelValues("failed", source).Inc()
		p.log.Error("stored settings are invalid, keeping previous settings", zap.String("source", source), zap.Error(err))
		return err
	}
	for _, key := range defaulted {
		monitoring.SettingsFallbacksTotal.WithLabelValues(key).Inc()
		p.log.Warn("setting missing, using default", zap.String("key", key))
	}

	engine, err := economics.NewEngine(s)
	if err != nil {
		monitoring.SettingsReloadsTotal.WithLabelValues("failed", source).Inc()
		return err
	}

	p.mu.Lock()
	p.engine = engine
	p.loadedAt = time.Now()
	p.mu.Unlock()

	monitoring.SettingsReloadsTotal.WithLabelValues("success", source).Inc()
	p.log.Debug("settings reloaded", zap.String("source", source), zap.Int("defaulted", len(defaulted)))
	return nil
}

func (p *Provider) load(ctx context.Context) (map[string]string, string, error) {
	if p.cache != nil {
		values, ok, err := p.cache.Get(ctx)
		if err != nil {
			p.log.Warn("settings cache unavailable, reading database", zap.Error(err))
		} else if ok {
			return values, "cache", nil
		}
	}

	values, err := p.store.SettingsMap(ctx)
	if err != nil {
		return nil, "database", fmt.Errorf("failed to read settings: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, values, p.ttl); err != nil {
			p.log.Warn("failed to populate settings cache", zap.Error(err))
		}
	}
	return values, "database", nil
}

// Update validates the changed keys against the current settings, persists
// them and reloads.
func (p *Provider) Update(ctx context.Context, values map[string]string, adminID uint) (economics.Settings, error) {
	if len(values) == 0 {
		return economics.Settings{}, fmt.Errorf("%w: no settings given", ErrInvalidSettings)
	}

	merged := p.Current().Values()
	changed := make(map[string]string, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if !knownKey(key) {
			return economics.Settings{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, key)
		}
		value = strings.TrimSpace(value)
		merged[key] = value
		changed[key] = value
	}
	if _, _, err := economics.ParseSettings(merged); err != nil {
		return economics.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	if err := p.store.UpsertSettings(ctx, changed, adminID); err != nil {
		return economics.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	if p.cache != nil {
		if err := p.cache.Invalidate(ctx); err != nil {
			p.log.Warn("failed to invalidate settings cache", zap.Error(err))
		}
	}

	keys := make([]string, 0, len(changed))
	for key := range changed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	p.log.Info("settings updated", zap.Uint("admin_id", adminID), zap.Strings("keys", keys))

	if err := p.Reload(ctx); err != nil {
		return economics.Settings{}, err
	}
	return p.Current(), nil
}

var fixedKeys = map[string]bool{
	economics.KeyReferralDiscount:    true,
	economics.KeyAgentRate:           true,
	economics.KeySuperAgentRate:      true,
	economics.KeyPartnerRate:         true,
	economics.KeySuperAgentThreshold: true,
	economics.KeyPartnerThreshold:    true,
	economics.KeyCurrency:            true,
}

func knownKey(key string) bool {
	if fixedKeys[key] {
		return true
	}
	return strings.HasPrefix(key, economics.KeyPlanPricePrefix) && len(key) > len(economics.KeyPlanPricePrefix)
}
