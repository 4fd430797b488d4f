// Package server exposes the LINE webhook over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/wealthnav/internal/line"
)

// EventHandler handles one webhook event. *bot.Handler satisfies it.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev line.Event) error
}

// Server is the webhook HTTP surface.
type Server struct {
	app     *fiber.App
	secret  string
	handler EventHandler
	tracer  trace.Tracer
}

// New builds the routes. secret is the LINE channel secret used to check
// webhook signatures.
func New(secret string, h EventHandler) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "wealthnav",
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
		}),
		secret:  secret,
		handler: h,
		tracer:  otel.Tracer("github.com/abhisek/wealthnav/internal/server"),
	}

	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	s.app.Post("/callback", s.callback)
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) callback(c *fiber.Ctx) error {
	body := c.Body()
	if err := line.VerifySignature(s.secret, body, c.Get(line.SignatureHeader)); err != nil {
		log.Printf("warning: rejected webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	wh, err := line.ParseWebhook(body)
	if err != nil {
		log.Printf("warning: bad webhook body: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Bad request")
	}

	ctx, span := s.tracer.Start(c.UserContext(), "webhook.callback",
		trace.WithAttributes(attribute.Int("line.events", len(wh.Events))))
	defer span.End()

	// Handler failures are ours to log; LINE only needs to know the
	// delivery arrived.
	for _, ev := range wh.Events {
		if err := s.handler.HandleEvent(ctx, ev); err != nil {
			span.RecordError(err)
			log.Printf("warning: handle %s event: %v", ev.Type, err)
		}
	}
	return c.SendString("OK")
}

// Run serves on addr until ctx is cancelled, then shuts down within
// timeout.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	if err := s.app.ShutdownWithTimeout(timeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
