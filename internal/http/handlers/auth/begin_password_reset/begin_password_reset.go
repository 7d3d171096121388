package beginpasswordreset

import (
	"errors"
	"net/http"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	service "streemi/internal/core/services/begin_password_reset"
	"streemi/internal/core/services/csrf"
	handlercsrf "streemi/internal/http/handlers/csrf"
	"streemi/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

const TOKEN_MAX_LEN = 1024

type Handler struct {
	service   services.Service[service.Input, service.Result]
	issuer    csrf.TokenIssuer
	generator handlercsrf.ClientIDGenerator
	secure    bool
}

func New(
	service services.Service[service.Input, service.Result],
	issuer csrf.TokenIssuer,
	generator handlercsrf.ClientIDGenerator,
	secure bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	return &Handler{service: service, issuer: issuer, generator: generator, secure: secure}
}

type Account struct {
	Email string `json:"email"`
}

type Result struct {
	Account   Account `json:"account"`
	CsrfToken string  `json:"csrfToken"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if len(token) > TOKEN_MAX_LEN {
		response.RenderInvalidResetToken(rw)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Token: user.PasswordResetToken(token)})
	if errors.Is(err, user.ErrInvalidOrExpiredToken) {
		response.RenderInvalidResetToken(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	clientID := handlercsrf.EnsureClientID(rw, r, h.generator, h.secure)
	csrfToken := h.issuer.IssueCsrfToken(handlercsrf.RESET_PASSWORD_ACTION, clientID)
	response.Render(
		rw,
		Result{
			Account:   Account{Email: string(result.Account.Email)},
			CsrfToken: string(csrfToken),
		},
		http.StatusOK,
	)
}
