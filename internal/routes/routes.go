package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/auth"
	"github.com/walletshare/walletshare/internal/config"
	"github.com/walletshare/walletshare/internal/identicon"
	"github.com/walletshare/walletshare/internal/ledger"
	"github.com/walletshare/walletshare/internal/logging"
	"github.com/walletshare/walletshare/internal/middleware"
	"github.com/walletshare/walletshare/internal/notify"
	"github.com/walletshare/walletshare/internal/txlog"
	"github.com/walletshare/walletshare/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(logging.Component(d.Logger, "http")))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Stores and the ledger backend: Postgres when configured, otherwise the
	// in-memory variants used for development and tests.
	var (
		directory  account.Directory
		txs        txlog.Store
		ledgerBack ledger.Ledger
		walletRepo wallet.Store
	)
	if d.DB != nil {
		pgTxs := txlog.NewPostgresStore(d.DB)
		directory = account.NewPostgresDirectory(d.DB)
		txs = pgTxs
		ledgerBack = ledger.NewPostgresLedger(d.DB, pgTxs)
		walletRepo = wallet.NewPostgresStore(d.DB)
	} else {
		memTxs := txlog.NewMemoryStore()
		directory = account.NewMemoryDirectory()
		txs = memTxs
		ledgerBack = ledger.NewInMemory(memTxs)
		walletRepo = wallet.NewMemoryStore()
	}

	var events notify.Publisher
	if d.Cache != nil {
		events = notify.NewRedisPublisher(d.Cache)
	} else {
		events = notify.NewLoggerPublisher(logging.Component(d.Logger, "notify"))
	}

	accountSvc := account.NewService(directory)
	walletSvc := wallet.NewService(walletRepo, ledgerBack, txs, directory, identicon.New(), events)
	tokenSvc := auth.NewService(d.Cfg, directory)

	authHandler := auth.NewHandler(accountSvc, tokenSvc, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc, directory)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, directory)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/survey", authHandler.CompleteSurvey)
	RegisterWalletRoutes(protected, walletHandler)

	return nil
}
