package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/deencompass/compass/pkg/eventstream"
	"github.com/deencompass/compass/pkg/llm/provider"
	"github.com/deencompass/compass/web"
)

// EventSink accepts completed exchanges without blocking. *worker.Pool
// satisfies it.
type EventSink interface {
	Enqueue(event *eventstream.ExchangeEvent) bool
}

// Server is the compass HTTP server. It holds no mutable state after
// construction and is safe for concurrent requests.
type Server struct {
	config  Config
	adapter provider.Adapter
	events  EventSink
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server around the resolved adapter. events may
// be nil, in which case no exchange events are emitted.
func NewServer(config Config, adapter provider.Adapter, events EventSink, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	s := &Server{
		config:  config,
		adapter: adapter,
		events:  events,
		logger:  logger,
		app:     app,
	}

	origins := config.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(compress.New())

	app.Get("/health", s.handleHealth)
	app.Post("/api/chat", s.handleChat)

	if config.ServeWeb {
		app.Use("/", filesystem.New(filesystem.Config{
			Root:  web.FS(),
			Index: "index.html",
		}))
	}

	return s
}

// App exposes the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"provider", s.adapter.Name(),
		"model", s.adapter.Model(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server, waiting for in-flight
// requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
