package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DefaultGatewayURL = "https://ldwxltpzaqcddblnnrlb.supabase.co"
	DefaultGatewayKey = "sb_publishable_gVXmFtLsUf9EYG8dZPOg7w_gjrdUQFH"
)

const (
	keyGatewayURL = "gateway.url"
	keyGatewayKey = "gateway.key"
	keySheetURL   = "import.sheet_url"
)

// GatewaySettings is the remote backend target: an endpoint URL and the
// credential sent with every call.
type GatewaySettings struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

func DefaultGatewaySettings() GatewaySettings {
	return GatewaySettings{URL: DefaultGatewayURL, Key: DefaultGatewayKey}
}

// Normalize replaces an unusable URL or an empty key with the defaults.
func (s GatewaySettings) Normalize() GatewaySettings {
	out := GatewaySettings{
		URL: strings.TrimSpace(s.URL),
		Key: strings.TrimSpace(s.Key),
	}
	if !ValidGatewayURL(out.URL) {
		out.URL = DefaultGatewayURL
	}
	if out.Key == "" {
		out.Key = DefaultGatewayKey
	}
	return out
}

// ValidGatewayURL accepts PostgREST endpoints (http, https) and direct
// database URLs (postgres, postgresql, mysql, sqlite).
func ValidGatewayURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "postgres", "postgresql", "mysql":
		return u.Host != ""
	case "sqlite":
		return u.Host != "" || u.Path != "" || u.Opaque != ""
	default:
		return false
	}
}

// SettingsStore persists runtime settings in a yaml file and reloads them
// when the file changes on disk.
type SettingsStore struct {
	path string
	log  *zap.Logger

	mu sync.Mutex // guards v
	v  *viper.Viper

	gateway  atomic.Value // GatewaySettings
	sheetURL atomic.Value // string

	subsMu sync.Mutex
	subs   []func(GatewaySettings)
}

func NewSettingsStore(path string, log *zap.Logger) (*SettingsStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("settings file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyGatewayURL, DefaultGatewayURL)
	v.SetDefault(keyGatewayKey, DefaultGatewayKey)
	v.SetDefault(keySheetURL, "")

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	store := &SettingsStore{
		path: path,
		log:  log.Named("config.settings"),
		v:    v,
	}
	store.gateway.Store(readGateway(v))
	store.sheetURL.Store(strings.TrimSpace(v.GetString(keySheetURL)))
	return store, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func readGateway(v *viper.Viper) GatewaySettings {
	return GatewaySettings{
		URL: v.GetString(keyGatewayURL),
		Key: v.GetString(keyGatewayKey),
	}.Normalize()
}

// Gateway returns the current gateway target.
func (s *SettingsStore) Gateway() GatewaySettings {
	return s.gateway.Load().(GatewaySettings)
}

// SheetURL returns the last CSV URL used for an import.
func (s *SettingsStore) SheetURL() string {
	return s.sheetURL.Load().(string)
}

// Subscribe registers fn to be called after every gateway change.
func (s *SettingsStore) Subscribe(fn func(GatewaySettings)) {
	if fn == nil {
		return
	}
	s.subsMu.Lock()
	s.subs = append(s.subs, fn)
	s.subsMu.Unlock()
}

// SaveGateway persists a new target. An invalid URL is ignored and the
// previous one kept; the key is always stored.
func (s *SettingsStore) SaveGateway(next GatewaySettings) (GatewaySettings, error) {
	s.mu.Lock()
	current := s.Gateway()
	if ValidGatewayURL(next.URL) {
		current.URL = strings.TrimSpace(next.URL)
	}
	current.Key = strings.TrimSpace(next.Key)

	s.v.Set(keyGatewayURL, current.URL)
	s.v.Set(keyGatewayKey, current.Key)
	err := s.v.WriteConfigAs(s.path)
	s.mu.Unlock()
	if err != nil {
		return s.Gateway(), fmt.Errorf("write settings: %w", err)
	}

	applied := current.Normalize()
	s.apply(applied)
	return applied, nil
}

// SaveSheetURL remembers the last CSV URL used for an import.
func (s *SettingsStore) SaveSheetURL(raw string) error {
	raw = strings.TrimSpace(raw)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keySheetURL, raw)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.sheetURL.Store(raw)
	return nil
}

// Watch reloads the file whenever it changes on disk.
func (s *SettingsStore) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.mu.Lock()
		if err := s.v.ReadInConfig(); err != nil {
			s.mu.Unlock()
			s.log.Warn("settings reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		next := readGateway(s.v)
		s.sheetURL.Store(strings.TrimSpace(s.v.GetString(keySheetURL)))
		s.mu.Unlock()

		if s.apply(next) {
			s.log.Info("settings reloaded", zap.String("file", e.Name), zap.String("url", next.URL))
		}
	})
	s.v.WatchConfig()
}

func (s *SettingsStore) apply(next GatewaySettings) bool {
	if next == s.Gateway() {
		return false
	}
	s.gateway.Store(next)

	s.subsMu.Lock()
	subs := append([]func(GatewaySettings){}, s.subs...)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
	return true
}
