package app

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

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/config"
	"github.com/n0nuser/gin-archetype/internal/domain"
	"github.com/n0nuser/gin-archetype/internal/middleware"
	"github.com/n0nuser/gin-archetype/internal/module/customer"
	"github.com/n0nuser/gin-archetype/internal/module/office"
	"github.com/n0nuser/gin-archetype/internal/pkg"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// newHTTPServer builds the server. A positive timeout replaces the default
// read and write timeouts.
var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if timeout > 0 {
		srv.ReadTimeout = timeout
		srv.WriteTimeout = timeout
	}
	return srv
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// Models lists every persisted entity, in migration order.
func Models() []any {
	return []any{
		&domain.Customer{},
		&domain.Address{},
		&domain.Office{},
		&domain.OfficeAddress{},
	}
}

// Migrate creates or updates the schema of every persisted entity.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("database is nil")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, database, domain stores, services, handlers,
// middleware, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database with its connection pool.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. AutoMigrate in debug mode only. Other modes use the migrate command.
	if cfg.Server.Mode == gin.DebugMode {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("auto migration completed")
	}

	// 4. Manual dependency injection: store → service → handler → module.
	listOpts := pkg.ListOptions{
		Limits: pkg.PageLimits{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
		BaseURL: cfg.Server.BaseURL,
	}

	customerSvc := customer.NewCustomerService(customer.NewCustomerStore(db))
	officeSvc := office.NewOfficeService(office.NewOfficeStore(db))

	modules := []Module{
		customer.NewModule(customer.NewCustomerHandler(customerSvc, listOpts)),
		office.NewModule(office.NewOfficeHandler(officeSvc, listOpts)),
	}

	// 5. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// In release mode, when no allowlist is configured, deny cross-origin requests.
	handlers := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: cfg.Server.RequestID.TrustUpstream,
		}),
		middleware.Logger(log.Logger),
		middleware.TrustedHosts(cfg.Server.AllowedHosts),
	}
	if corsConfig, ok := resolveCORSConfig(cfg.Server.Mode, &cfg.Server.CORS); ok {
		handlers = append(handlers, middleware.CORSWithConfig(corsConfig))
	}
	engine.Use(handlers...)

	// 6. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: modules,
		DB:      db,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.engine
}

// resolveCORSConfig merges configured CORS settings over the defaults.
// It reports false when no cross-origin request should be allowed.
func resolveCORSConfig(mode string, cfg *config.CORSConfig) (middleware.CORSConfig, bool) {
	corsConfig := middleware.DefaultCORSConfig()

	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowHeaders
	}
	corsConfig.AllowCredentials = cfg.AllowCredentials
	if d := cfg.CORSMaxAge(); d > 0 {
		corsConfig.MaxAge = d
	}

	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		return corsConfig, true
	}

	if mode == gin.ReleaseMode {
		return corsConfig, false
	}

	return corsConfig, true
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the database
// connection.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, a.cfg.Server.ServerTimeout())

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		a.log().Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		a.log().Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		// Graceful shutdown with 5-second deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log().Error("server shutdown error", slog.Any("error", err))
		}
	}

	a.closeDB()

	a.log().Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}

// Close releases the database and logger without starting the server.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.closeDB()
	if a.logger != nil {
		return a.logger.Close()
	}
	return nil
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		a.log().Error("database close error", slog.Any("error", err))
		return
	}
	a.log().Info("database connection closed")
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}
