package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/api/docs"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/api/handler"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/api/middleware"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/audit"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/detector"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/repository"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/service"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/webhook"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/ws"
)

type Dependencies struct {
	Detector        detector.Detector
	DB              *pgxpool.Pool
	ChallengeConfig liveness.Config
	SessionTTL      time.Duration
	FramesPerMin    int
	CallbackURL     string
	CallbackSecret  string
}

type Router struct {
	app           *fiber.App
	logger        *slog.Logger
	deps          *Dependencies
	rateLimiter   *middleware.RateLimiter
	wsHub         *ws.Hub
	webhookWorker *webhook.Worker
	cancelWorker  context.CancelFunc
	cancelHub     context.CancelFunc
	cancelSweeper context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Liveness API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group
	v1 := r.app.Group("/v1")

	// Only configure service routes if dependencies were provided
	if r.deps != nil {
		// Initialize WebSocket Hub
		r.wsHub = ws.NewHub()
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.wsHub.Run(hubCtx)

		// Initialize Webhook Service and Worker
		webhookService := webhook.NewService(r.deps.CallbackURL, r.deps.CallbackSecret)
		r.webhookWorker = webhook.NewWorker(webhookService, r.logger)

		ctx, cancel := context.WithCancel(context.Background())
		r.cancelWorker = cancel
		go r.webhookWorker.Run(ctx)

		// Rate limiting keyed by session id, sized for frame streaming
		limiterCfg := middleware.DefaultRateLimiterConfig()
		if r.deps.FramesPerMin > 0 {
			limiterCfg.Max = r.deps.FramesPerMin
		}
		r.rateLimiter = middleware.NewRateLimiter(limiterCfg)
		v1.Use(r.rateLimiter.Handler())

		// Result repository and liveness service
		resultRepo := repository.NewResultRepository(r.deps.DB)
		auditLogger := audit.NewSlogLogger(r.logger)

		livenessService := service.NewLivenessService(
			resultRepo,
			r.deps.Detector,
			r.wsHub,
			r.webhookWorker,
			auditLogger,
			r.logger,
			r.deps.ChallengeConfig,
			r.deps.SessionTTL,
		)

		// Expire idle sessions in the background
		sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
		r.cancelSweeper = sweeperCancel
		go livenessService.RunSweeper(sweeperCtx)

		// Liveness handler
		livenessHandler := handler.NewLivenessHandler(livenessService, r.logger)

		// Liveness routes
		sessions := v1.Group("/liveness/sessions")
		sessions.Post("/", livenessHandler.Create)
		sessions.Get("/:id", livenessHandler.Get)
		sessions.Post("/:id/frames", livenessHandler.ProcessFrame)
		sessions.Delete("/:id", livenessHandler.Abandon)
		sessions.Get("/:id/result", livenessHandler.GetResult)

		// WebSocket event stream per session
		sessions.Get("/:id/events", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop WebSocket hub
	if r.cancelHub != nil {
		r.cancelHub()
	}

	// Stop webhook worker
	if r.cancelWorker != nil {
		r.cancelWorker()
	}

	// Stop session sweeper
	if r.cancelSweeper != nil {
		r.cancelSweeper()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
