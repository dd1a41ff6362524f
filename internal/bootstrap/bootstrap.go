package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/codegoddy/skincare/internal/app/services"
	"github.com/codegoddy/skincare/internal/domain/broadcast"
	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/provider"
	"github.com/codegoddy/skincare/internal/domain/lockout"
	"github.com/codegoddy/skincare/internal/domain/ratelimit"
	platformconfig "github.com/codegoddy/skincare/internal/platform/config"
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
	platformlogging "github.com/codegoddy/skincare/internal/platform/logging"
	platformobservability "github.com/codegoddy/skincare/internal/platform/observability"
	platformstorage "github.com/codegoddy/skincare/internal/platform/storage"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
	httpwebapi "github.com/codegoddy/skincare/internal/transport/http/webapi"
	wstransport "github.com/codegoddy/skincare/internal/transport/ws"
)

const shutdownTimeout = 5 * time.Second

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID      string
	Title   string
	Kind    platformerrors.Kind
	Execute stepFn
}

type appState struct {
	config   *platformconfig.Config
	logger   *platformlogging.Logger
	db       *gorm.DB
	resolver *identity.Resolver
	gate     *identity.Gate
	auth     provider.Authenticator
	tracker  lockout.Tracker
	limiter  ratelimit.Limiter
	bus      evbus.Bus
	hub      *broadcast.Hub
	relay    *broadcast.Relay
	router   *httptransport.Router
}

// Run drives the whole service lifecycle: configuration, dependency
// wiring, serving, and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}
	if err := executeInitSteps(ctx, initGraph(), state); err != nil {
		return err
	}
	defer state.teardown()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", state.config.Server.IP, state.config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: state.router.Engine,
	}

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		state.logger.Info("http listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return platformerrors.Wrap(platformerrors.KindTransport, "bootstrap.Run", "http server", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	state.logger.Info("shutdown complete")
	return nil
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	for _, step := range steps {
		if err := step.Execute(ctx, state); err != nil {
			return platformerrors.Wrap(step.Kind, step.ID, step.Title+" failed", err)
		}
		if state.logger != nil {
			state.logger.Debug("bootstrap step %s done", step.ID)
		}
	}
	return nil
}

func initGraph() []initStep {
	return []initStep{
		{ID: "config:load", Title: "Load configuration", Kind: platformerrors.KindConfig, Execute: loadConfigStep},
		{ID: "logging:init", Title: "Initialise logging", Kind: platformerrors.KindBootstrap, Execute: initLoggingStep},
		{ID: "observability:setup", Title: "Setup observability", Kind: platformerrors.KindBootstrap, Execute: setupObservabilityStep},
		{ID: "storage:open", Title: "Open database", Kind: platformerrors.KindStorage, Execute: openStorageStep},
		{ID: "identity:init", Title: "Initialise identity domain", Kind: platformerrors.KindBootstrap, Execute: initIdentityStep},
		{ID: "lockout:init", Title: "Initialise lockout tracker", Kind: platformerrors.KindBootstrap, Execute: initLockoutStep},
		{ID: "ratelimit:init", Title: "Initialise rate limiter", Kind: platformerrors.KindBootstrap, Execute: initRateLimitStep},
		{ID: "broadcast:init", Title: "Initialise broadcast hub", Kind: platformerrors.KindBootstrap, Execute: initBroadcastStep},
		{ID: "http:build", Title: "Build HTTP router", Kind: platformerrors.KindBootstrap, Execute: buildRouterStep},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	cfg, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return err
	}
	state.config = cfg
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	return nil
}

func setupObservabilityStep(_ context.Context, state *appState) error {
	platformobservability.Setup(platformobservability.Config{Enabled: true}, state.logger.Slog())
	return nil
}

func openStorageStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(platformstorage.Config{
		Driver: state.config.Storage.Driver,
		DSN:    state.config.Storage.DSN,
	})
	if err != nil {
		return err
	}
	state.db = db
	return nil
}

func initIdentityStep(_ context.Context, state *appState) error {
	cfg := state.config.Identity
	validator, err := provider.New(provider.Config{
		Driver:     cfg.Driver,
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		ServiceKey: cfg.ServiceKey,
		JWTSecret:  cfg.JWTSecret,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return err
	}

	resolver, err := identity.NewResolver(validator, state.logger)
	if err != nil {
		return err
	}
	gate, err := identity.NewGate(platformstorage.NewProfileRepository(state.db), state.logger)
	if err != nil {
		return err
	}

	state.resolver = resolver
	state.gate = gate

	// The jwt driver validates tokens locally; credential flows still go
	// through the remote provider.
	if auth, ok := validator.(provider.Authenticator); ok {
		state.auth = auth
		return nil
	}
	remote, err := provider.NewRemote(provider.Config{
		Driver:     provider.DriverRemote,
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		ServiceKey: cfg.ServiceKey,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return err
	}
	state.auth = remote
	return nil
}

func initLockoutStep(_ context.Context, state *appState) error {
	cfg := state.config.Lockout
	trackerCfg := lockout.Config{
		Driver:          cfg.Store.Driver,
		MaxAttempts:     cfg.MaxAttempts,
		AttemptWindow:   cfg.AttemptWindow,
		LockoutDuration: cfg.LockoutDuration,
	}
	if cfg.Store.Driver == lockout.DriverRedis {
		trackerCfg.Redis = &lockout.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Username: cfg.Store.Redis.Username,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		}
	} else {
		trackerCfg.Memory = &lockout.MemoryConfig{GCInterval: cfg.Store.Memory.GCInterval}
	}

	tracker, err := lockout.New(trackerCfg)
	if err != nil {
		return err
	}
	state.tracker = tracker
	return nil
}

func initRateLimitStep(_ context.Context, state *appState) error {
	if !state.config.RateLimit.Enabled {
		return nil
	}
	cfg := ratelimit.Config{Driver: state.config.RateLimit.Store.Driver}
	if cfg.Driver == ratelimit.DriverRedis {
		cfg.Redis = &ratelimit.RedisConfig{
			Addr:     state.config.RateLimit.Store.Redis.Addr,
			Username: state.config.RateLimit.Store.Redis.Username,
			Password: state.config.RateLimit.Store.Redis.Password,
			DB:       state.config.RateLimit.Store.Redis.DB,
			Prefix:   state.config.RateLimit.Store.Redis.Prefix,
		}
	}
	limiter, err := ratelimit.New(&cfg)
	if err != nil {
		return err
	}
	state.limiter = limiter
	return nil
}

func initBroadcastStep(_ context.Context, state *appState) error {
	hub := broadcast.NewHub(broadcast.Config{
		QueueSize:   state.config.Broadcast.QueueSize,
		Workers:     state.config.Broadcast.Workers,
		SendTimeout: state.config.Broadcast.SendTimeout,
	}, state.logger)
	hub.Start()

	bus := evbus.New()
	relay := broadcast.NewRelay(bus, hub)
	if err := relay.Attach(); err != nil {
		hub.Stop()
		return err
	}

	state.bus = bus
	state.hub = hub
	state.relay = relay
	return nil
}

func buildRouterStep(_ context.Context, state *appState) error {
	router, err := httptransport.Build(httptransport.Options{
		LogLevel:   state.config.Log.Level,
		Logger:     state.logger,
		StaticRoot: state.config.Server.StaticDir,
	})
	if err != nil {
		return err
	}

	profiles := platformstorage.NewProfileRepository(state.db)
	settingsRepo := platformstorage.NewSettingsRepository(state.db)
	settingsSvc := services.NewSettingsService(settingsRepo, state.bus)

	deps := httpwebapi.Deps{
		Auth:     services.NewAuthService(state.auth, state.tracker, profiles, state.logger),
		Catalog:  services.NewCatalogService(platformstorage.NewProductRepository(state.db), state.bus),
		Orders:   services.NewOrderService(platformstorage.NewOrderRepository(state.db), settingsRepo, state.bus),
		Settings: settingsSvc,
		Profiles: profiles,
		Wishlist: platformstorage.NewWishlistRepository(state.db),
		Logger:   state.logger,
	}

	maintenanceOn := func(c *gin.Context) bool {
		return state.config.Maintenance || settingsSvc.MaintenanceMode(c.Request.Context())
	}

	mw := httpwebapi.Middlewares{
		RequireAuth:  httptransport.RequireAuth(state.resolver),
		OptionalAuth: httptransport.OptionalAuth(state.resolver),
		RequireAdmin: httptransport.RequireAdmin(state.gate),
		Maintenance:  httptransport.Maintenance(maintenanceOn, state.gate),
	}
	if state.limiter != nil {
		mw.RateLimit = httptransport.RateLimit(state.limiter, state.config.RateLimit.RequestsPerMin, state.logger)
		mw.AuthRateLimit = httptransport.RateLimit(state.limiter, state.config.RateLimit.AuthRequestsMin, state.logger)
	}

	httpwebapi.NewService(deps).Register(router, mw)

	wsServer := wstransport.NewServer(wstransport.ServerConfig{}, state.hub, state.logger)
	router.Engine.GET(state.config.Broadcast.Path, gin.WrapF(wsServer.Handle))

	state.router = router
	return nil
}

func (s *appState) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.relay != nil {
		s.relay.Wait()
		s.relay.Detach()
	}
	if s.hub != nil {
		s.hub.Stop()
	}
	if s.tracker != nil {
		if err := s.tracker.Close(ctx); err != nil && s.logger != nil {
			s.logger.Warn("lockout tracker close: %v", err)
		}
	}
	if s.limiter != nil {
		if err := s.limiter.Close(ctx); err != nil && s.logger != nil {
			s.logger.Warn("rate limiter close: %v", err)
		}
	}
	if s.logger != nil {
		_ = s.logger.Close()
	}
}
