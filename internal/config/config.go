// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Version is the build version, set at link time with
// -ldflags "-X github.com/ericfisherdev/storypartner/internal/config.Version=1.4.0".
var Version = "dev"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string `env:"STORYPARTNER_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath     string `env:"STORYPARTNER_DB_PATH" envDefault:"storypartner.db"`
	// LogLevel accepts debug, info, warn or error.
	LogLevel slog.Level `env:"STORYPARTNER_LOG_LEVEL" envDefault:"info"`
	// SecretKeyHex is a 64 hex character AES-256 key encrypting backend access
	// tokens at rest. Backend sign-in fails without it; local accounts carry
	// no token and work either way.
	SecretKeyHex string `env:"STORYPARTNER_SECRET_KEY"`
	SecretKey    []byte

	// BackendURL selects the hosted backend for partners, profiles and auth.
	// When empty, the local SQLite database serves all three.
	BackendURL       string `env:"STORYPARTNER_BACKEND_URL"`
	BackendAnonKey   string `env:"STORYPARTNER_BACKEND_ANON_KEY"`
	BackendJWTSecret string `env:"STORYPARTNER_BACKEND_JWT_SECRET"`

	VersionURL          string        `env:"STORYPARTNER_VERSION_URL"`
	VersionPollInterval time.Duration `env:"STORYPARTNER_VERSION_POLL_INTERVAL" envDefault:"60s"`

	SessionTTL    time.Duration `env:"STORYPARTNER_SESSION_TTL" envDefault:"168h"`
	SecureCookies bool          `env:"STORYPARTNER_SECURE_COOKIES" envDefault:"false"`

	CreatorURL string `env:"STORYPARTNER_CREATOR_URL" envDefault:"/wizard"`
	HubURL     string `env:"STORYPARTNER_HUB_URL" envDefault:"/hub"`
	// MediaDir, when set, is served at /media/ for self-hosted audio and video.
	MediaDir           string `env:"STORYPARTNER_MEDIA_DIR"`
	IntroBackgroundURL string `env:"STORYPARTNER_INTRO_BACKGROUND_URL" envDefault:"/media/intro-theme.mp3"`
	HeroVideoURL       string `env:"STORYPARTNER_HERO_VIDEO_URL" envDefault:"/media/hero-desktop.mp4"`
	HeroVideoMobileURL string `env:"STORYPARTNER_HERO_VIDEO_MOBILE_URL" envDefault:"/media/hero-mobile.mp4"`

	IntroVoiceOverDelay  time.Duration `env:"STORYPARTNER_INTRO_VOICE_OVER_DELAY" envDefault:"2s"`
	IntroFinishBuffer    time.Duration `env:"STORYPARTNER_INTRO_FINISH_BUFFER" envDefault:"2s"`
	IntroFallbackTimeout time.Duration `env:"STORYPARTNER_INTRO_FALLBACK_TIMEOUT" envDefault:"0s"`
}

// HasBackend returns true when a hosted backend is configured.
func (c *Config) HasBackend() bool {
	return c.BackendURL != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional; malformed durations, URLs or keys fail
// fast.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SecretKeyHex != "" {
		key, err := hex.DecodeString(cfg.SecretKeyHex)
		if err != nil {
			return nil, fmt.Errorf("STORYPARTNER_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("STORYPARTNER_SECRET_KEY must be 32 bytes (64 hex characters), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	if cfg.BackendURL != "" {
		if err := validateURL(cfg.BackendURL); err != nil {
			return nil, fmt.Errorf("STORYPARTNER_BACKEND_URL: %w", err)
		}
		if cfg.BackendAnonKey == "" {
			return nil, fmt.Errorf("STORYPARTNER_BACKEND_ANON_KEY is required with STORYPARTNER_BACKEND_URL")
		}
	}

	if cfg.VersionURL != "" {
		if err := validateURL(cfg.VersionURL); err != nil {
			return nil, fmt.Errorf("STORYPARTNER_VERSION_URL: %w", err)
		}
	}

	if cfg.VersionPollInterval <= 0 {
		return nil, fmt.Errorf("STORYPARTNER_VERSION_POLL_INTERVAL must be positive, got %s", cfg.VersionPollInterval)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("STORYPARTNER_SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.IntroVoiceOverDelay < 0 || cfg.IntroFinishBuffer < 0 || cfg.IntroFallbackTimeout < 0 {
		return nil, fmt.Errorf("STORYPARTNER_INTRO_* durations must not be negative")
	}

	return &cfg, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
