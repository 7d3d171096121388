package user

import (
	"strings"
	"unicode"
	"unicode/utf8"

	c "streemi/internal/core/domain/common"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 256
)

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// ValidateNewPassword checks the strength policy for a password being set
// on the account with the given email.
func ValidateNewPassword(password RawPassword, email c.Email) error {
	raw := string(password)
	length := utf8.RuneCountInString(raw)
	if length < PasswordMinLength || length > PasswordMaxLength {
		return ErrWeakPassword
	}

	hasLetter, hasDigit := false, false
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}

	if email != "" && strings.EqualFold(raw, string(email)) {
		return ErrWeakPassword
	}
	return nil
}
