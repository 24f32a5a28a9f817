package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/handler"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/middleware"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/redis"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/repository"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/service"
)

// newSessions builds the session store, each dashboard sharing the same
// Open-Meteo client and geocoding cache.
func newSessions() *service.Sessions {
	client := repository.NewOpenMeteoClient()
	locations := repository.NewLocationRepository(redis.GetClient(), client)
	weather := repository.NewWeatherRepository(client)

	return service.NewSessions(func() *service.Dashboard {
		return service.NewDashboard(locations, weather, service.DashboardConfig{})
	}, config.GetSessionIdleTimeout())
}

// newMux registers every route of the dashboard. Only the search routes,
// which reach the geocoder, go through the rate limiter.
func newMux(sessions *service.Sessions, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	handler.NewDashboardHandler(sessions).Register(mux)
	mux.HandleFunc("/healthz", handler.HealthHandler(redis.Ping))

	limited := limiter.Middleware(mux)
	root := http.NewServeMux()
	root.Handle("/", mux)
	root.Handle("/search", limited)
	root.Handle("/api/search", limited)
	return root
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}
}

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redis.Ping(pingCtx); err != nil {
		logger.Warnw("Redis unreachable, geocoding results will not be cached", "addr", config.GetRedisAddr(), "error", err)
	}
	cancel()

	sessions := newSessions()
	sessions.StartEviction(ctx, time.Minute)

	limiter := middleware.NewRateLimiterFromConfig()
	limiter.StartCleanup(config.GetRateLimiterCleanupTimeout(), ctx.Done())

	srv := newServer(newMux(sessions, limiter))

	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Starting weather dashboard", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Fatalw("Server failed", "error", err)
	case <-ctx.Done():
	}

	logger.Infow("Shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Graceful shutdown failed", "error", err)
	}
}
