package randomstringgenerator

import (
	"encoding/base64"
	"net/url"
	"streemi/internal/core/domain/user"
	"testing"
)

func TestPasswordResetTokenGenerator(t *testing.T) {
	generator := NewGenerator()
	tokens := make(map[user.PasswordResetToken]struct{})
	for i := 0; i < 100; i++ {
		token, err := generator.GeneratePasswordResetToken()
		if err != nil {
			t.Fatalf("could not generate token: %v", err)
		}
		if string(token) == "" {
			t.Fatal("token must not be empty")
		}
		if _, ok := tokens[token]; ok {
			t.Fatalf("token %v already exists", string(token))
		}
		tokens[token] = struct{}{}
	}
}

func TestPasswordResetTokenIsUrlSafe(t *testing.T) {
	token, err := NewGenerator().GeneratePasswordResetToken()
	if err != nil {
		t.Fatalf("could not generate token: %v", err)
	}
	raw := string(token)
	if url.PathEscape(raw) != raw {
		t.Fatalf("token %q must not need escaping", raw)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("token must be base64url: %v", err)
	}
	if len(decoded) != PasswordResetTokenBytes {
		t.Fatalf("token carries %d bytes, expected %d", len(decoded), PasswordResetTokenBytes)
	}
}
