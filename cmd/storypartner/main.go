package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/storypartner/internal/adapter/driven/backend"
	sqliteadapter "github.com/ericfisherdev/storypartner/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/storypartner/internal/adapter/driven/versionfeed"
	httphandler "github.com/ericfisherdev/storypartner/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/storypartner/internal/adapter/driving/web"
	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/config"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"version", config.Version,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"backend", cfg.HasBackend(),
		"version_url", cfg.VersionURL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode, migrated).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Wire adapters. Sessions always live in SQLite; partners, profiles
	// and sign-in come from the hosted backend when one is configured.
	var (
		partnerStore driven.PartnerStore
		profileStore driven.ProfileStore
		identity     driven.IdentityProvider
	)
	if cfg.HasBackend() {
		client := backend.NewClient(cfg.BackendURL, cfg.BackendAnonKey, cfg.BackendJWTSecret)
		partnerStore = backend.NewPartnerStore(client)
		profileStore = backend.NewProfileStore(client)
		identity = backend.NewIdentity(client)
		if cfg.SecretKey == nil {
			slog.Warn("STORYPARTNER_SECRET_KEY not set, backend sign-in will fail")
		}
		if cfg.BackendJWTSecret == "" {
			slog.Warn("STORYPARTNER_BACKEND_JWT_SECRET not set, access token signatures are not verified")
		}
	} else {
		partnerStore = sqliteadapter.NewPartnerRepo(db)
		profileStore = sqliteadapter.NewProfileRepo(db)
		identity = sqliteadapter.NewAccountRepo(db)
		slog.Info("no backend configured, using local partners and accounts")
	}
	sessionStore := sqliteadapter.NewSessionRepo(db, cfg.SecretKey)

	var versionSource driven.VersionSource
	if cfg.VersionURL != "" {
		versionSource = versionfeed.New(cfg.VersionURL)
	}

	// 5. Create application services.
	partnerSvc := application.NewPartnerService(partnerStore)
	sessionSvc := application.NewSessionService(identity, sessionStore, profileStore, cfg.SessionTTL)
	updateSvc := application.NewUpdateService(versionSource, config.Version, cfg.VersionPollInterval)

	offerSvc, err := application.NewOfferService()
	if err != nil {
		return fmt.Errorf("load offer content: %w", err)
	}

	timing := application.DefaultIntroTiming()
	timing.VoiceOverDelay = cfg.IntroVoiceOverDelay
	timing.FinishBuffer = cfg.IntroFinishBuffer
	timing.FallbackTimeout = cfg.IntroFallbackTimeout
	introSvc := application.NewIntroService(application.SystemClock, timing, cfg.IntroBackgroundURL, slog.Default())

	// 6. Create HTTP handlers and register routes.
	localizer, err := webhandler.NewLocalizer()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	mux := http.NewServeMux()

	apiHandler := httphandler.NewHandler(partnerSvc, updateSvc, introSvc, slog.Default())
	httphandler.RegisterRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(partnerSvc, sessionSvc, introSvc, updateSvc, offerSvc, localizer,
		webhandler.Options{
			CreatorURL:         cfg.CreatorURL,
			HubURL:             cfg.HubURL,
			HeroVideoURL:       cfg.HeroVideoURL,
			HeroVideoMobileURL: cfg.HeroVideoMobileURL,
			SecureCookies:      cfg.SecureCookies,
		},
		slog.Default(),
	)
	webhandler.RegisterRoutes(mux, webHandler)

	if cfg.MediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
		slog.Info("serving media", "dir", cfg.MediaDir)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.Wrap(slog.Default(), mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 7. Run the server and background loops until a signal arrives.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		updateSvc.Start(gctx)
		return nil
	})
	g.Go(func() error {
		sessionSvc.StartJanitor(gctx, sessionCleanupInterval)
		return nil
	})
	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Intro sockets are hijacked connections that Shutdown does not track.
		introSvc.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	slog.Info("storypartner started", "listen_addr", cfg.ListenAddr, "version", config.Version)

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}
