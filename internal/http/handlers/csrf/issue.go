package csrf

import (
	"net/http"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/services/csrf"
	"streemi/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

// IssueHandler hands out a CSRF token for the action given in the query.
type IssueHandler struct {
	issuer    csrf.TokenIssuer
	generator ClientIDGenerator
	secure    bool
}

func NewIssueHandler(issuer csrf.TokenIssuer, generator ClientIDGenerator, secure bool) *IssueHandler {
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	return &IssueHandler{issuer: issuer, generator: generator, secure: secure}
}

type IssueInput struct {
	Action string
}

func (i IssueInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Action, validation.Required, validation.In(RESET_PASSWORD_ACTION)),
	)
}

type IssueResult struct {
	CsrfToken string `json:"csrfToken"`
}

func (h *IssueHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := IssueInput{Action: r.URL.Query().Get("action")}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	clientID := EnsureClientID(rw, r, h.generator, h.secure)
	token := h.issuer.IssueCsrfToken(input.Action, clientID)
	response.Render(rw, IssueResult{CsrfToken: string(token)}, http.StatusOK)
}
