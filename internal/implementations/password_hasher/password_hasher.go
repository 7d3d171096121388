package passwordhasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"streemi/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt peppers the password with a server-side secret before hashing.
// The password is first reduced to a keyed SHA-256 digest, so passwords
// longer than bcrypt's 72-byte input limit are still fully significant.
type Bcrypt struct {
	secret []byte
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		panic(fmt.Sprintf("bcrypt cost must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	return &Bcrypt{secret: []byte(secret), cost: cost}
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	return err == nil
}

func (h *Bcrypt) peppered(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
