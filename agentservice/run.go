package agentservice

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/agent"
	"github.com/semi-dlc/flowt-bb/internal/api"
	"github.com/semi-dlc/flowt-bb/internal/auth"
	"github.com/semi-dlc/flowt-bb/internal/completion"
	"github.com/semi-dlc/flowt-bb/internal/config"
	"github.com/semi-dlc/flowt-bb/internal/factory"
	"github.com/semi-dlc/flowt-bb/internal/health"
	"github.com/semi-dlc/flowt-bb/internal/logger"
	"github.com/semi-dlc/flowt-bb/internal/retriever"
	"github.com/semi-dlc/flowt-bb/internal/services"
	"github.com/semi-dlc/flowt-bb/internal/store"
)

// Run starts the freight agent HTTP server and blocks until shutdown or error.
// A non-empty buildTarget overrides FREIGHT_AGENT_BUILD_TARGET.
func Run(buildTarget string) error {
	log := logger.New("freight-agent")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if buildTarget != "" {
		cfg.BuildTarget = buildTarget
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Error().Err(err).Msg("Invalid build-target override")
			return err
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("default_model", cfg.DefaultModel).
		Bool("dev_mode", cfg.IsDevMode()).
		Msg("Freight agent starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, completer, authn, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	if c, ok := st.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	router := buildRouter(st, completer, authn, cfg, log)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st, completer, authn)

	// Block startup until the store reports healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store, upstream client and authenticator.
// Only the store is required to start.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, *completion.Client, auth.Authenticator, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, nil, err
	}
	completer := factory.NewCompletionClient(cfg, log)

	authn := auth.NewAuthenticator(cfg)
	if cfg.IsDevMode() {
		log.Warn().Str("token", auth.LocalDevToken).Msg("dev mode: accepting the local development token")
	} else if cfg.AuthURL == "" {
		log.Warn().Msg("AUTH_URL not set; listing creation will be rejected")
	}
	return st, completer, authn, nil
}

// buildRouter wires the agent and listing services into the HTTP surface.
func buildRouter(st store.Store, completer completion.Completer, authn auth.Authenticator, cfg *config.Config, log zerolog.Logger) http.Handler {
	listings := services.NewListingService(st)
	caps := services.NewCapabilityService(st)
	a := agent.New(
		retriever.New(st, log),
		completer,
		authn,
		listings,
		caps,
		agent.Options{
			DefaultModel:       cfg.DefaultModel,
			DefaultTemperature: cfg.DefaultTemperature,
			DefaultMaxTokens:   cfg.DefaultMaxTokens,
		},
		log,
	)
	return api.NewRouter(api.Deps{
		Agent:           a,
		Listings:        listings,
		Capabilities:    caps,
		Authenticator:   authn,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Log:             log,
	})
}

// startHealthCheckers starts the health monitor and binds it to /api/health.
// The store gates service health; the upstream and auth service are reported only.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, completer *completion.Client, authn auth.Authenticator) *health.Monitor {
	checkTimeout := time.Duration(cfg.HealthCheckTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	monitor := health.NewMonitor(log, health.NewPingChecker("store", store.Pinger(st), log, checkTimeout)).
		Advise(health.NewPingChecker("completion", completer, log, checkTimeout))
	if p, ok := authn.(health.HealthPinger); ok {
		monitor.Advise(health.NewPingChecker("auth", p, log, checkTimeout))
	}
	go monitor.Run(ctx, interval)

	api.BindServiceHealth(monitor.IsHealthy)
	api.BindComponentHealth(monitor.Report)
	return monitor
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// A chat turn may wait the full upstream timeout.
		WriteTimeout: cfg.UpstreamTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.Monitor) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: store not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
