// Package server wires configuration, storage, services and the HTTP
// surface together, runs the background janitors and handles graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/netx"
	"github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/httpapi"
	"github.com/janusipm/brandvigilante/internal/server/kvstore"
	"github.com/janusipm/brandvigilante/internal/server/mailer"
	"github.com/janusipm/brandvigilante/internal/server/oauth"
	"github.com/janusipm/brandvigilante/internal/server/ratelimit"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/services"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/timex"
)

const (
	sessionSweepInterval   = time.Hour
	cacheSweepInterval     = time.Minute
	rateLimitSweepInterval = time.Minute
	shutdownTimeout        = 10 * time.Second
)

// App owns the HTTP server and the connections it was built from.
type App struct {
	config *config.Config
	logger logging.Logger

	db          *sql.DB
	redis       redis.UniversalClient
	memoryStore *ratelimit.MemoryStore

	sessions *session.Manager
	admin    *services.AdminService
	http     *fiber.App
}

// OpenDB opens the pgx pool sized from the config and checks it answers.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(cfg.PoolSize())
	db.SetMaxIdleConns(cfg.PoolSize())
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func newMailer(cfg *config.Config, log logging.Logger) mailer.Mailer {
	if cfg.SMTPHost == "" {
		return mailer.NewLogMailer(log)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom(),
	})
}

// newRateLimitStore returns a Redis-backed store when an address is
// configured, otherwise a process-local one that needs its janitor.
func newRateLimitStore(cfg *config.Config) (ratelimit.Store, redis.UniversalClient, *ratelimit.MemoryStore) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return ratelimit.NewRedisStore(client), client, nil
	}
	mem := ratelimit.NewMemoryStore()
	return mem, nil, mem
}

func newOAuthBridge(cfg *config.Config, m repomanager.RepositoryManager, db *sql.DB, log logging.Logger) *oauth.Bridge {
	if cfg.GoogleClientID == "" {
		return nil
	}
	provider := oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	return oauth.NewBridge(provider, m.Users(db), log)
}

// NewApp validates cfg, opens and migrates the database, then builds the routes.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	clock := timex.SystemClock{}
	mail := newMailer(cfg, logger)
	store, redisClient, memStore := newRateLimitStore(cfg)
	limiter := ratelimit.New(store, cfg.RateLimitWindow, cfg.RateLimitMax, clock)

	sessions := session.NewManager(m.Sessions(db), m.Users(db), session.Config{
		CookieName: cfg.SessionCookieName,
		Domain:     cfg.CookieDomain,
		Secure:     cfg.IsProduction(),
		TTL:        cfg.SessionTTL,
	}, clock, logger)

	activity := services.NewActivityService(db, m, logger)
	admin := services.NewAdminService(db, m, clock, activity, logger)
	verification := services.NewVerificationService(db, m, mail, limiter, cfg.AppURL, clock, logger)

	h := httpapi.NewHandler(httpapi.Deps{
		Config:        cfg,
		DB:            db,
		Sessions:      sessions,
		OAuth:         newOAuthBridge(cfg, m, db, logger),
		Auth:          services.NewAuthService(db, m, sessions, limiter, verification, logger),
		Verification:  verification,
		PasswordReset: services.NewPasswordResetService(db, m, mail, sessions, cfg.AppURL, clock, logger),
		Admin:         admin,
		Brands:        services.NewBrandService(db, m, activity, admin),
		Terms:         services.NewTermService(db, m, activity, admin),
		Marketplaces:  services.NewMarketplaceService(db, m, activity, admin),
		Listings:      services.NewListingService(db, m, activity, cfg.QueryTimeout),
		Catalog:       services.NewCatalogService(db, m),
		Leads:         services.NewLeadService(db, m, mail, cfg.AdminEmail, logger),
		Activity:      activity,
		Export:        services.NewExportService(db, m, cfg, netx.NewUploader(), clock, logger),
		CSRFStorage:   newCSRFStorage(redisClient),
		Log:           logger,
	})

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		memoryStore: memStore,
		sessions:    sessions,
		admin:       admin,
		http:        httpapi.NewApp(h),
	}, nil
}

// newCSRFStorage shares CSRF tokens through redis when it is configured, so
// any instance can check a token another one issued.
func newCSRFStorage(client redis.UniversalClient) fiber.Storage {
	if client == nil {
		return nil
	}
	return kvstore.NewRedisStorage(client, "bv:csrf:")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startJanitors launches the periodic sweeps and returns their done
// channels.
func (app *App) startJanitors(ctx context.Context) []<-chan struct{} {
	done := []<-chan struct{}{
		app.sessions.StartJanitor(ctx, sessionSweepInterval),
		app.admin.StatsCache().StartJanitor(ctx, cacheSweepInterval),
	}
	if app.memoryStore != nil {
		done = append(done, app.memoryStore.StartJanitor(ctx, rateLimitSweepInterval, app.config.RateLimitWindow))
	}
	return done
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "http server listening", "addr", app.config.ListenAddr)
	if err := app.http.Listen(app.config.ListenAddr); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		cancelFunc()
	}
}

// Run serves until a signal arrives or the listener fails, then drains
// in-flight requests and stops the janitors.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "env", app.config.Environment)
	app.initSignalHandler(cancelFunc)

	janitors := app.startJanitors(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.http.ShutdownWithContext(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown failed", "error", err)
	}
	wg.Wait()
	for _, done := range janitors {
		<-done
	}

	return app.Close()
}

func (app *App) Close() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(context.Background(), "redis close failed", "error", err)
		}
	}
	return app.db.Close()
}
