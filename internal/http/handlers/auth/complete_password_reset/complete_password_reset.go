package completepasswordreset

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	service "streemi/internal/core/services/complete_password_reset"
	"streemi/internal/core/services/csrf"
	handlercsrf "streemi/internal/http/handlers/csrf"
	"streemi/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	TOKEN_MAX_LEN  = 1024
	BODY_MAX_BYTES = 64 << 10
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	CsrfToken       string `json:"_csrf_token"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i *Input) FromForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	i.Password = r.PostForm.Get("password")
	i.ConfirmPassword = r.PostForm.Get("confirm_password")
	i.CsrfToken = r.PostForm.Get(handlercsrf.FORM_FIELD)
	return nil
}

// Validate checks shape only; password strength and equality are decided
// by the service so the reset token is checked first.
func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Password, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.ConfirmPassword, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.CsrfToken, validation.Length(0, 1024)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" || len(token) > TOKEN_MAX_LEN {
		response.RenderInvalidResetToken(rw)
		return
	}

	r.Body = http.MaxBytesReader(rw, r.Body, BODY_MAX_BYTES)
	input := Input{}
	if err := parseInput(r, &input); err != nil {
		response.RenderInvalidRequestData(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	clientID, _ := handlercsrf.ClientID(r)
	ctx := csrf.WithToken(r.Context(), clientID, handlercsrf.SubmittedToken(r, input.CsrfToken))

	_, err := h.service.Run(
		ctx,
		service.Input{
			Token:           user.PasswordResetToken(token),
			NewPassword:     user.RawPassword(input.Password),
			ConfirmPassword: user.RawPassword(input.ConfirmPassword),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, csrf.ErrInvalidCsrfToken):
			response.RenderInvalidCsrfToken(rw)
		case errors.Is(err, user.ErrInvalidOrExpiredToken):
			response.RenderInvalidResetToken(rw)
		case errors.Is(err, user.ErrPasswordMismatch):
			response.RenderError(rw, "passwords do not match", http.StatusUnprocessableEntity)
		case errors.Is(err, user.ErrWeakPassword):
			response.RenderError(rw, "password is too weak", http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, struct{}{}, http.StatusOK)
}

func parseInput(r *http.Request, input *Input) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		return input.FromForm(r)
	default:
		return input.FromJSON(r.Body)
	}
}
