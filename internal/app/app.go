package app

import (
	"context"
	"fmt"
	"net/http"
	"streemi/internal/app/deps"
	"streemi/internal/app/services"
	beginpasswordreset "streemi/internal/http/handlers/auth/begin_password_reset"
	completepasswordreset "streemi/internal/http/handlers/auth/complete_password_reset"
	requestpasswordreset "streemi/internal/http/handlers/auth/request_password_reset"
	"streemi/internal/http/handlers/csrf"
	"streemi/internal/http/handlers/health"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode
	secureCookies := deps.Config.SecureCookies

	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/password_reset/request",
		requestpasswordreset.New(s.RequestPasswordReset, isTestMode),
	)
	authRouter.Method(
		http.MethodGet,
		"/password_reset/{token}",
		beginpasswordreset.New(s.BeginPasswordReset, deps.CsrfTokenManager, deps.CsrfClientIDGenerator, secureCookies),
	)
	authRouter.Method(
		http.MethodPost,
		"/password_reset/{token}",
		completepasswordreset.New(s.CompletePasswordReset),
	)
	authRouter.Method(
		http.MethodGet,
		"/csrf",
		csrf.NewIssueHandler(deps.CsrfTokenManager, deps.CsrfClientIDGenerator, secureCookies),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", csrf.HEADER_NAME},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	router.Method(http.MethodGet, "/health", health.New(healthChecks(deps)))

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func healthChecks(deps *deps.Deps) map[string]health.Pinger {
	checks := map[string]health.Pinger{"postgres": deps.DB}
	if deps.Redis != nil {
		checks["redis"] = health.PingFunc(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}
	return checks
}
