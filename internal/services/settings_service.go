package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/logging"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap"
)

// KeySource tells where the active API key comes from.
type KeySource string

const (
	KeySourceNone   KeySource = ""
	KeySourceStored KeySource = "stored"
	KeySourceConfig KeySource = "config"
)

// SettingsService handles the API key, model selection and app settings.
type SettingsService struct {
	store       ports.KeyValueStore
	factory     ports.GeneratorFactory
	fallbackKey string
	logger      *zap.Logger
}

// NewSettingsService creates a new settings service. fallbackKey is used
// when no key has been stored (config file or GEMINI_API_KEY).
func NewSettingsService(store ports.KeyValueStore, factory ports.GeneratorFactory, fallbackKey string, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:       store,
		factory:     factory,
		fallbackKey: strings.TrimSpace(fallbackKey),
		logger:      logging.OrNop(logger).Named("settings"),
	}
}

// APIKey returns the active key and where it came from.
func (s *SettingsService) APIKey(ctx context.Context) (string, KeySource, error) {
	var key string
	found, err := loadJSON(ctx, s.store, ports.KeyAPIKey, &key)
	if err != nil {
		return "", KeySourceNone, err
	}
	if found && key != "" {
		return key, KeySourceStored, nil
	}
	if s.fallbackKey != "" {
		return s.fallbackKey, KeySourceConfig, nil
	}
	return "", KeySourceNone, nil
}

// SetAPIKey validates and stores key. An empty key removes the stored one.
func (s *SettingsService) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.ClearAPIKey(ctx)
	}
	if err := domain.ValidateAPIKey(key); err != nil {
		return err
	}
	return saveJSON(ctx, s.store, ports.KeyAPIKey, key)
}

// ClearAPIKey removes the stored key.
func (s *SettingsService) ClearAPIKey(ctx context.Context) error {
	if err := s.store.Remove(ctx, ports.KeyAPIKey); err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	return nil
}

// TestAPIKey validates key offline and then sends a one-token request with
// the selected model.
func (s *SettingsService) TestAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if err := domain.ValidateAPIKey(key); err != nil {
		return err
	}
	gen, err := s.factory(ctx, key, s.Model(ctx))
	if err != nil {
		return err
	}
	return gen.Ping(ctx)
}

// Model returns the selected text model.
func (s *SettingsService) Model(ctx context.Context) string {
	var model string
	found, err := loadJSON(ctx, s.store, ports.KeySelectedModel, &model)
	if err != nil {
		s.logger.Warn("failed to load selected model", zap.Error(err))
	}
	if !found || domain.ValidateModel(model) != nil {
		return domain.DefaultModel
	}
	return model
}

// SetModel selects the text model.
func (s *SettingsService) SetModel(ctx context.Context, model string) error {
	model = strings.TrimSpace(model)
	if err := domain.ValidateModel(model); err != nil {
		return fmt.Errorf("%w: %q (choose one of %s)", err, model, strings.Join(domain.SelectableModels, ", "))
	}
	return saveJSON(ctx, s.store, ports.KeySelectedModel, model)
}

// AppSettings returns the presentation settings, defaulting when unset.
func (s *SettingsService) AppSettings(ctx context.Context) domain.AppSettings {
	settings := domain.DefaultAppSettings()
	if _, err := loadJSON(ctx, s.store, ports.KeyAppSettings, &settings); err != nil {
		s.logger.Warn("failed to load app settings", zap.Error(err))
		return domain.DefaultAppSettings()
	}
	if _, err := domain.ParseTheme(string(settings.Theme)); err != nil {
		settings.Theme = domain.ThemeDark
	}
	return settings
}

// SetTheme stores the display theme.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) (domain.Theme, error) {
	t, err := domain.ParseTheme(theme)
	if err != nil {
		return "", err
	}
	settings := s.AppSettings(ctx)
	settings.Theme = t
	return t, saveJSON(ctx, s.store, ports.KeyAppSettings, settings)
}

// SetCustomSmileImage stores the image shown on the smile prompt. An empty
// path removes it.
func (s *SettingsService) SetCustomSmileImage(ctx context.Context, path string) error {
	settings := s.AppSettings(ctx)
	settings.CustomSmileImage = strings.TrimSpace(path)
	return saveJSON(ctx, s.store, ports.KeyAppSettings, settings)
}

// Generator builds a quote generator for the active key and model.
func (s *SettingsService) Generator(ctx context.Context) (ports.QuoteGenerator, error) {
	key, _, err := s.APIKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, domain.ErrNoAPIKey
	}
	return s.factory(ctx, key, s.Model(ctx))
}
