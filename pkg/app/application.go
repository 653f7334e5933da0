// Package app assembles the HTTP server: router, middleware chain and
// graceful shutdown.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourbook/pkg/config"
	"tourbook/pkg/contracts"
	"tourbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// publicPrefixes are reachable without a bearer token: health probes,
// signup, auth endpoints, public tour browsing and the gateway callbacks.
var publicPrefixes = []string{
	"/healthz",
	"/readyz",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh-token",
	"/api/v1/auth/otp",
	"/api/v1/users/register",
	"/api/v1/tours",
	"/api/v1/tour-types",
	"/api/v1/payments/success",
	"/api/v1/payments/fail",
	"/api/v1/payments/cancel",
}

type Application struct {
	cfg     *config.Config
	router  *httprouter.Router
	server  *http.Server
	closers []io.Closer
}

func NewApplication(cfg *config.Config, handlers ...contracts.Handler) *Application {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	chain := middleware.Recovery(cfg.Log)(
		middleware.RequestLogging(cfg.Log)(
			middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(
				middleware.ContentTypeValidation(cfg.Log)(
					middleware.Authenticate(cfg.JWTAccessSecret, cfg.Log, publicPrefixes...)(
						middleware.RequestTimeout(cfg.RequestTimeout)(router),
					),
				),
			),
		),
	)

	return &Application{
		cfg:    cfg,
		router: router,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      chain,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// RegisterCloser adds a resource closed during shutdown, after the server
// has drained but before the shared clients disconnect.
func (a *Application) RegisterCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests within
// the shutdown timeout.
func (a *Application) Run() {
	go func() {
		a.cfg.Log.Info("Server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.cfg.Log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.cfg.Log.Warn("Failed to close resource", "error", err)
		}
	}

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped")
}

// ShutdownNow stops the server without waiting for a signal.
func (a *Application) ShutdownNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.server.Shutdown(ctx)
}
