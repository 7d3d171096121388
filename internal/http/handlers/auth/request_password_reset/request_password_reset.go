package requestpasswordreset

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	c "streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/notification"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	service "streemi/internal/core/services/request_password_reset"
	"streemi/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

// ServeHTTP answers 202 whether or not the email belongs to an account, and
// also when the message could not be delivered, so the response never tells
// which addresses are registered.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequestData(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{Email: c.NewEmail(input.Email), ClientIP: clientIP(r)},
	)
	var notifyErr *notification.NotifyError
	switch {
	case err == nil, errors.As(err, &notifyErr):
		if h.isTestMode && result.Token != "" {
			rw.Header().Set("x-test-password-reset-token", string(result.Token))
		}
	case errors.Is(err, user.ErrAccountNotFound):
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		response.RenderRateLimitExceeded(rw)
		return
	default:
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, struct{}{}, http.StatusAccepted)
}

// clientIP expects RemoteAddr to be rewritten by middleware.RealIP when the
// server runs behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
