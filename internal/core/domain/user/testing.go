package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "streemi/internal/core/domain/common"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

// FakePasswordResetTokenGenerator hands out Tokens in order and then
// falls back to numbered tokens.
type FakePasswordResetTokenGenerator struct {
	Tokens      []PasswordResetToken
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

func NewFakePasswordResetTokenGenerator(tokens ...string) *FakePasswordResetTokenGenerator {
	g := &FakePasswordResetTokenGenerator{}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, PasswordResetToken(t))
	}
	return g
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() (PasswordResetToken, error) {
	if g.ReturnError {
		return PasswordResetToken(""), fmt.Errorf("could not generate password reset token")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	g.generated++
	if g.generated <= len(g.Tokens) {
		return g.Tokens[g.generated-1], nil
	}
	return PasswordResetToken(fmt.Sprintf("test-reset-token-%d", g.generated)), nil
}

type FakeAccountRepository struct {
	Accounts    []Account
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{Accounts: make([]Account, 0, 10)}
}

func (r *FakeAccountRepository) Create(ctx context.Context, input CreateAccountInput) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not create account %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, a := range r.Accounts {
		if a.Email == input.Email {
			return a, ErrEmailAlreadyExists
		}
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	a = Account{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Accounts = append(r.Accounts, a)
	return a, nil
}

func (r *FakeAccountRepository) GetByID(ctx context.Context, id ID) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not get account %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return a, ErrAccountNotFound
}

func (r *FakeAccountRepository) GetByEmail(ctx context.Context, email c.Email) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not get account by email")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return a, ErrAccountNotFound
}

func (r *FakeAccountRepository) GetByPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not get account by password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if a.PasswordResetToken.IsPresent && a.PasswordResetToken.Value == token {
			return a, nil
		}
	}
	return a, ErrAccountNotFound
}

func (r *FakeAccountRepository) SetPasswordResetToken(ctx context.Context, input SetPasswordResetTokenInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID == input.AccountID {
			r.Accounts[ix].PasswordResetToken = c.Some(input.Token)
			r.Accounts[ix].PasswordResetTokenExpiresAt = c.Some(input.ExpiresAt)
			return nil
		}
	}
	return ErrAccountNotFound
}

func (r *FakeAccountRepository) ConsumePasswordResetToken(
	ctx context.Context,
	input ConsumePasswordResetTokenInput,
) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not consume password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.HasLivePasswordResetToken(input.Token, input.At) {
			r.Accounts[ix].PasswordHash = input.PasswordHash
			r.Accounts[ix].PasswordResetToken = c.None[PasswordResetToken]()
			r.Accounts[ix].PasswordResetTokenExpiresAt = c.None[time.Time]()
			return r.Accounts[ix], nil
		}
	}
	return a, ErrInvalidOrExpiredToken
}

// ActiveTokenCount returns how many accounts currently hold a reset token.
func (r *FakeAccountRepository) ActiveTokenCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, a := range r.Accounts {
		if a.PasswordResetToken.IsPresent {
			count++
		}
	}
	return count
}
