package http

import (
	"context"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/delivery/http/handler"
	"github.com/geocoding-microservice/internal/delivery/http/middleware"
	"github.com/geocoding-microservice/internal/pkg/errors"
	"github.com/geocoding-microservice/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// HealthChecker - зависимость, проверяемая в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthResponse - ответ /health; dependencies содержит "ok" или текст ошибки
type HealthResponse struct {
	Status       string            `json:"status"`
	Time         time.Time         `json:"time"`
	Dependencies map[string]string `json:"dependencies"`
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	geocodeHandler *handler.GeocodeHandler
	statsHandler   *handler.StatsHandler

	checks map[string]HealthChecker
}

// NewServer - создание нового HTTP сервера.
// checks - необязательные зависимости (postgres, redis) для health check.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	geocodeHandler *handler.GeocodeHandler,
	statsHandler *handler.StatsHandler,
	checks map[string]HealthChecker,
) *Server {
	// провайдер может отвечать до MAPBOX_REQUEST_TIMEOUT, плюс запас на разбивку на пакеты
	writeTimeout := time.Duration(cfg.Mapbox.RequestTimeout)*time.Second + 10*time.Second

	app := fiber.New(fiber.Config{
		AppName:      "Geocoding Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		geocodeHandler: geocodeHandler,
		statsHandler:   statsHandler,
		checks:         checks,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Geocoding routes
	api.Post("/batch/geocode", s.geocodeHandler.BatchGeocode)
	api.Get("/geocode", s.geocodeHandler.Geocode)

	// Stats
	api.Get("/stats", s.statsHandler.GetStatistics)
}

// health godoc
// @Summary Health check
// @Description Проверяет доступность зависимостей; недоступная зависимость дает 503
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = err.Error()
			status = "unhealthy"
			continue
		}
		deps[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(HealthResponse{
		Status:       status,
		Time:         time.Now(),
		Dependencies: deps,
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App возвращает fiber приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		appErr := errors.New("INTERNAL_SERVER_ERROR", err.Error(), code)
		if code == fiber.StatusNotFound {
			appErr.Code = "NOT_FOUND"
		}
		return c.Status(code).JSON(utils.ErrorResponse{Error: appErr})
	}
}
