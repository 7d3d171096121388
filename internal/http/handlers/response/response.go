package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
}

func RenderInvalidRequestData(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

func RenderInvalidResetToken(rw http.ResponseWriter) {
	RenderError(rw, "invalid or expired reset token", http.StatusNotFound)
}

func RenderInvalidCsrfToken(rw http.ResponseWriter) {
	RenderError(rw, "invalid CSRF token", http.StatusForbidden)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("Cache-Control", "no-store")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
