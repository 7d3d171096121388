package health

import (
	"context"
	"net/http"
	"streemi/internal/http/handlers/response"
	"time"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	pingers map[string]Pinger
}

func New(pingers map[string]Pinger) *Handler {
	return &Handler{pingers: pingers}
}

type Result struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	result := Result{Status: "ok", Checks: make(map[string]string, len(h.pingers))}
	status := http.StatusOK
	for name, pinger := range h.pingers {
		if err := pinger.Ping(ctx); err != nil {
			result.Checks[name] = "unavailable"
			result.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		result.Checks[name] = "ok"
	}
	response.Render(rw, result, status)
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
