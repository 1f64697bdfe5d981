// Package server exposes the battle orchestrator over HTTP: a buffered
// debate endpoint, a streaming (SSE) variant and the option suggester.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mingyuli/debate-arena/internal/battle"
)

// RoundRunner runs one battle round. Satisfied by *battle.Engine;
// an interface so handler tests can script outcomes.
type RoundRunner interface {
	RunRound(ctx context.Context, req battle.RoundRequest, sink battle.EventSink) (*battle.RoundResult, error)
}

// OptionSuggester produces suggested reply directions. Satisfied by
// *battle.Suggester.
type OptionSuggester interface {
	Suggest(ctx context.Context, topic string, round int, history []battle.HistoryEntry, side battle.Side) []string
}

// Server is the HTTP front of the arena.
type Server struct {
	app       *fiber.App
	runner    RoundRunner
	suggester OptionSuggester
}

// New creates a Server with its routes registered.
func New(runner RoundRunner, suggester OptionSuggester) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{app: app, runner: runner, suggester: suggester}

	app.Post("/debate", s.handleDebate)
	app.Post("/debate/stream", s.handleDebateStream)
	app.Post("/debate/options", s.handleOptions)

	return s
}

// App exposes the underlying Fiber app for tests (app.Test).
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until the listener fails.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
