// Package server wires the Datalyn backend together: configuration,
// logging, tracing, the PostgreSQL store, the JSON API and the gRPC
// health endpoint, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/cryptox"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/server/auth"
	"github.com/dmitrijs2005/datalyn/internal/server/config"
	"github.com/dmitrijs2005/datalyn/internal/server/gate"
	"github.com/dmitrijs2005/datalyn/internal/server/httpapi"
	"github.com/dmitrijs2005/datalyn/internal/server/llm"
	"github.com/dmitrijs2005/datalyn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datalyn/internal/server/services"
	"github.com/dmitrijs2005/datalyn/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	gs "github.com/dmitrijs2005/datalyn/internal/server/grpc"
)

const (
	serviceName     = "datalyn"
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	limiter   *httpapi.RateLimiter
	handler   http.Handler
	telemetry telemetry.ShutdownFunc
}

// NewApp validates cfg, connects to the database, runs migrations and
// builds the HTTP handler. Call Close when Run returns.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(ctx, "insecure configuration", "warning", w)
	}

	app := &App{config: cfg, logger: logger}

	app.telemetry, err = telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		// tracing is optional
		logger.Warn(ctx, "telemetry disabled", "error", err)
	}

	app.db, err = sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	hasher, err := cryptox.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		app.Close()
		return nil, err
	}
	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.TokenValidityDuration)

	users := services.NewUserService(app.db, rm, hasher, tokens, logger.With("module", "users"), cfg.StoreTimeout)
	chat := services.NewChatService(app.db, rm, llm.NewEchoClient(), logger.With("module", "chat"), cfg.StoreTimeout)

	app.limiter, err = httpapi.NewRateLimiter(ctx, httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
		Logger:    logger.With("module", "ratelimit"),
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	h := httpapi.NewHandler(httpapi.Deps{
		Users:        users,
		Chat:         chat,
		Dashboard:    services.NewDashboardService(),
		Integrations: services.NewIntegrationService(),
		Gate:         gate.New(tokens, rm.Users(app.db), logger.With("module", "gate"), cfg.StoreTimeout),
		Health:       app.db,
		Limiter:      app.limiter,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger.With("module", "http"),
	})
	app.handler = otelhttp.NewHandler(h.Routes(), serviceName)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lis, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		app.logger.Error(ctx, "http listen", "address", srv.Addr, "error", err)
		cancelFunc()
		return
	}

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := serveHTTP(ctx, srv, lis, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// serveHTTP serves until ctx is done and returns only after Shutdown has
// drained in-flight requests, so the store can be closed right after.
func serveHTTP(ctx context.Context, srv *http.Server, lis net.Listener, log logging.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		// failed before shutdown was requested
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "Stopping HTTP server...")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error(sctx, "http shutdown", "error", err)
		_ = srv.Close()
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the database, the rate limiter and flushes traces.
func (app *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.limiter != nil {
		_ = app.limiter.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}
	if app.telemetry != nil {
		if err := app.telemetry(ctx); err != nil {
			app.logger.Warn(ctx, "telemetry shutdown", "error", err)
		}
	}
}
