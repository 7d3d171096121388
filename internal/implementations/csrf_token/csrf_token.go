package csrftoken

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"streemi/internal/core/services/csrf"
)

// HMAC issues stateless CSRF tokens bound to an action and a client ID.
// A token is base64url("<unix ts>-<salt>-<mac>").
type HMAC struct {
	secretKey     []byte
	validDuration time.Duration
	now           func() time.Time
}

func NewHMAC(secretKey string, validDuration time.Duration, now func() time.Time) *HMAC {
	return &HMAC{
		secretKey:     []byte(secretKey),
		validDuration: validDuration,
		now:           now,
	}
}

func (h *HMAC) IssueCsrfToken(action string, clientID csrf.ClientID) csrf.Token {
	nowTs := h.now().Unix()
	salt := h.getRandomSalt()
	mac := h.getMac(action, clientID, nowTs, salt)
	b64 := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%d-%s-%s", nowTs, salt, mac)))
	return csrf.Token(b64)
}

func (h *HMAC) ValidateCsrfToken(ctx context.Context, action string, clientID csrf.ClientID, token csrf.Token) bool {
	if clientID.IsZero() || token.IsZero() {
		return false
	}
	decodedToken, err := base64.RawURLEncoding.DecodeString(string(token))
	if err != nil {
		return false
	}
	parts := strings.SplitN(string(decodedToken), "-", 3)
	if len(parts) != 3 {
		return false
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	age := time.Duration(h.now().Unix()-ts) * time.Second
	if age < 0 || age > h.validDuration {
		return false
	}
	salt := parts[1]
	mac := parts[2]
	expectedMac := h.getMac(action, clientID, ts, salt)
	return subtle.ConstantTimeCompare([]byte(mac), []byte(expectedMac)) == 1
}

func (h *HMAC) getMac(action string, clientID csrf.ClientID, ts int64, salt string) string {
	hasher := hmac.New(sha256.New, h.secretKey)
	io.WriteString(hasher, fmt.Sprintf("%s\x00%s\x00%d\x00%s", action, clientID, ts, salt))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (h *HMAC) getRandomSalt() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}
