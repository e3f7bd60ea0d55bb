package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/config"
	"github.com/sells-group/taxengine/internal/delivery/http/handler"
	"github.com/sells-group/taxengine/internal/delivery/http/middleware"
)

// Server is the Fiber-based HTTP boundary adapter.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	orderHandler  *handler.OrderHandler
	importHandler *handler.ImportHandler
}

// NewServer builds the Fiber app, middleware stack, and routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	orderHandler *handler.OrderHandler,
	importHandler *handler.ImportHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Tax Engine",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		orderHandler:  orderHandler,
		importHandler: importHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/orders", s.orderHandler.CreateOrder)
	api.Get("/orders", s.orderHandler.ListOrders)
	api.Post("/orders/clear", s.orderHandler.ClearOrders)
	api.Post("/orders/import_csv", s.importHandler.SubmitImport)
	api.Get("/imports/:id", s.importHandler.GetImportStatus)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("unhandled HTTP error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
