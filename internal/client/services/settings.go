package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/dmitrijs2005/readkeeper/internal/common"
)

// Settings are the user preferences kept in the local store.
type Settings struct {
	DefaultPage models.Collection
	Order       presenter.Order
	Theme       string
	// UpdateInterval is the background sync period; 0 disables polling.
	UpdateInterval time.Duration
}

// DefaultSettings is what a fresh install uses.
func DefaultSettings() Settings {
	return Settings{
		DefaultPage: models.List,
		Order:       presenter.OrderNewest,
		Theme:       presenter.ThemeLight,
	}
}

// SettingNames lists the keys accepted by SettingsService.Set.
var SettingNames = []string{cache.KeyDefaultPage, cache.KeyOrder, cache.KeyTheme, cache.KeyUpdateInterval}

type SettingsService interface {
	Load(ctx context.Context) (Settings, error)
	Set(ctx context.Context, name, value string) (Settings, error)
}

type settingsService struct {
	store *cache.Store
}

func NewSettingsService(store *cache.Store) SettingsService {
	return &settingsService{store: store}
}

// Load returns stored settings. Missing or unreadable values fall back to
// their defaults.
func (s *settingsService) Load(ctx context.Context) (Settings, error) {
	out := DefaultSettings()
	for _, name := range SettingNames {
		raw, ok, err := s.store.Value(ctx, name)
		if err != nil {
			return Settings{}, err
		}
		if !ok {
			continue
		}
		_ = apply(&out, name, raw)
	}
	return out, nil
}

func (s *settingsService) Set(ctx context.Context, name, value string) (Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	if err := apply(&current, name, value); err != nil {
		return Settings{}, err
	}
	if err := s.store.SetValues(ctx, map[string]string{name: encode(current, name)}); err != nil {
		return Settings{}, err
	}
	return current, nil
}

func apply(st *Settings, name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case cache.KeyDefaultPage:
		c, err := models.ParseCollection(strings.ToLower(value))
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInvalidSetting, err)
		}
		st.DefaultPage = c
	case cache.KeyOrder:
		o, err := presenter.ParseOrder(value)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInvalidSetting, err)
		}
		st.Order = o
	case cache.KeyTheme:
		th, err := presenter.ParseTheme(value)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInvalidSetting, err)
		}
		st.Theme = th
	case cache.KeyUpdateInterval:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: update interval must be a non-negative number of seconds", common.ErrorInvalidSetting)
		}
		st.UpdateInterval = time.Duration(n) * time.Second
	default:
		return fmt.Errorf("%w: %q", common.ErrorUnknownSetting, name)
	}
	return nil
}

func encode(st Settings, name string) string {
	switch name {
	case cache.KeyDefaultPage:
		return string(st.DefaultPage)
	case cache.KeyOrder:
		return string(st.Order)
	case cache.KeyTheme:
		return st.Theme
	case cache.KeyUpdateInterval:
		return strconv.Itoa(int(st.UpdateInterval / time.Second))
	}
	return ""
}
