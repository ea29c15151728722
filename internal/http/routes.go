package httpx

import (
	"log/slog"
	"net/http"

	"github.com/vive-avila/ui-api/internal/observability/statsd"
	"github.com/vive-avila/ui-api/internal/service"
)

// RouterServices holds the collaborators the HTTP router needs.
type RouterServices struct {
	Reconciler    *service.Reconciler
	Router        *service.Router
	Notifications *service.NotificationChannel
	Metrics       statsd.Sink
	Health        HealthChecks
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shell := &ShellHandlers{
		Reconciler:    services.Reconciler,
		Router:        services.Router,
		Notifications: services.Notifications,
		Logger:        logger,
	}
	auth := &AuthHandlers{Shell: shell, Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", auth.SignIn)
	mux.HandleFunc("POST /auth/signout", auth.SignOut)
	mux.HandleFunc("GET /session", shell.Session)
	mux.HandleFunc("GET /notification", shell.Notification)
	mux.HandleFunc("POST /view", shell.SetView)
	mux.HandleFunc("PUT /profile", shell.UpdateProfile)
	mux.HandleFunc("GET /healthz", services.Health.Health)
	mux.HandleFunc("HEAD /healthz", services.Health.Health)

	// Catch-all GET serves the shell for every view path.
	mux.HandleFunc("GET /", shell.Shell)

	handler := Metrics(services.Metrics)(mux)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}
