package csrf

import (
	"context"
	"errors"
)

var ErrInvalidCsrfToken = errors.New("invalid CSRF token")

type Token string

func (t Token) IsZero() bool {
	return string(t) == ""
}

// ClientID binds issued tokens to one browser so a token obtained by a
// third party is useless in a forged request.
type ClientID string

func (c ClientID) IsZero() bool {
	return string(c) == ""
}

type TokenIssuer interface {
	IssueCsrfToken(action string, clientID ClientID) Token
}

type TokenValidator interface {
	ValidateCsrfToken(ctx context.Context, action string, clientID ClientID, token Token) bool
}
