package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jetharam07/payledger/internal/auth"
	"github.com/jetharam07/payledger/internal/authz"
	"github.com/jetharam07/payledger/internal/config"
	"github.com/jetharam07/payledger/internal/events"
	"github.com/jetharam07/payledger/internal/ledger"
	"github.com/jetharam07/payledger/internal/middleware"
	"github.com/jetharam07/payledger/internal/payments"
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
	// Durable backends are mandatory outside dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	ownerToken := auth.NewOwnerToken(d.Cfg.OwnerAddress, d.Cfg.OwnerTokenHash)

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Requester(ownerToken))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Ledger store
	var store ledger.Store
	if d.DB != nil {
		pg := ledger.NewPostgresStore(d.DB)
		if err := pg.EnsureState(context.Background()); err != nil {
			return fmt.Errorf("ensure ledger state: %w", err)
		}
		store = pg
	} else {
		store = ledger.NewInMemory()
	}

	// Event publishers
	publisher := events.Fanout{events.NewLogPublisher(d.Logger)}
	if d.Cache != nil {
		publisher = append(publisher, events.NewRedisPublisher(d.Cache, d.Cfg.EventChannel))
	}

	gateway := authz.NewOwnerGateway(d.Cfg.OwnerAddress)
	paymentSvc := payments.NewService(store, gateway, publisher, d.Cfg.OwnerAddress, d.Cfg.RecentWindow)
	paymentHandler := payments.NewHandler(paymentSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	depositLimit := middleware.DepositRateLimit(d.Cache, d.Cfg.DepositPerMin)
	RegisterPaymentRoutes(api, paymentHandler, depositLimit)

	return nil
}
