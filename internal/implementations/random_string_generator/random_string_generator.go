package randomstringgenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"streemi/internal/core/domain/user"
)

// PasswordResetTokenBytes is the entropy of an issued reset token.
const PasswordResetTokenBytes = 32

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GeneratePasswordResetToken returns a URL-safe token read from the system CSPRNG.
func (g *Generator) GeneratePasswordResetToken() (user.PasswordResetToken, error) {
	b := make([]byte, PasswordResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return user.PasswordResetToken(""), fmt.Errorf("could not read random bytes: %w", err)
	}
	return user.PasswordResetToken(base64.RawURLEncoding.EncodeToString(b)), nil
}
