package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/discover"
)

// MaxTrendingLimit caps the limit query parameter of /api/trending.
const MaxTrendingLimit = 20

// Options toggles the optional middleware.
type Options struct {
	// RequestLog writes one line per request to stdout.
	RequestLog bool
}

// Server is the JSON facade over the fetch cycle and the count store.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	fetcher  *discover.Fetcher
	trending discover.TrendingSource
}

// New builds the fiber app and registers the routes. trending may be nil, in
// which case /api/trending always answers with an empty list.
func New(cfg *config.Config, fetcher *discover.Fetcher, trending discover.TrendingSource, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "reel",
		ServerHeader: "reel",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			debuglog.WithFields(map[string]interface{}{
				"path":       c.Path(),
				"status":     code,
				"request_id": requestid.FromContext(c),
			}).Errorf("unhandled error: %v", err)
			return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	s := &Server{
		app:      app,
		cfg:      cfg,
		fetcher:  fetcher,
		trending: trending,
	}

	app.Get("/health", s.Health)

	api := app.Group("/api")
	api.Get("/movies", s.Movies)
	api.Get("/trending", s.Trending)

	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	debuglog.Infof("listening on %s", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and waits for pending search recordings.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.fetcher.Wait()
	return err
}
