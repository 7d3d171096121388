package csrf

import (
	"net/http"
	"streemi/internal/core/services/csrf"
	"time"
)

const (
	COOKIE_NAME = "streemi_csrf"
	HEADER_NAME = "X-CSRF-Token"
	FORM_FIELD  = "_csrf_token"

	// RESET_PASSWORD_ACTION is the action reset completion tokens are issued for.
	RESET_PASSWORD_ACTION = "reset_password"

	clientIDMaxLen = 64
)

type ClientIDGenerator interface {
	GenerateClientID() csrf.ClientID
}

// ClientID returns the client ID carried by the CSRF cookie.
func ClientID(r *http.Request) (csrf.ClientID, bool) {
	cookie, err := r.Cookie(COOKIE_NAME)
	if err != nil || cookie.Value == "" || len(cookie.Value) > clientIDMaxLen {
		return csrf.ClientID(""), false
	}
	return csrf.ClientID(cookie.Value), true
}

// EnsureClientID returns the request's client ID, setting a new cookie
// when the request has none.
func EnsureClientID(
	rw http.ResponseWriter,
	r *http.Request,
	generator ClientIDGenerator,
	secure bool,
) csrf.ClientID {
	if clientID, ok := ClientID(r); ok {
		return clientID
	}
	clientID := generator.GenerateClientID()
	http.SetCookie(rw, &http.Cookie{
		Name:     COOKIE_NAME,
		Value:    string(clientID),
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return clientID
}

// SubmittedToken returns the token from the request header or, if absent, from fallback.
func SubmittedToken(r *http.Request, fallback string) csrf.Token {
	if token := r.Header.Get(HEADER_NAME); token != "" {
		return csrf.Token(token)
	}
	return csrf.Token(fallback)
}
