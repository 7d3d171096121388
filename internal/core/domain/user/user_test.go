package user

import (
	"errors"
	"fmt"
	c "streemi/internal/core/domain/common"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

func TestHasLivePasswordResetToken(t *testing.T) {
	account := Account{
		ID:                          1,
		Email:                       c.NewEmail("a@x.com"),
		PasswordHash:                PasswordHash("hash"),
		PasswordResetToken:          c.Some(PasswordResetToken("token-1")),
		PasswordResetTokenExpiresAt: c.Some(now.Add(time.Hour)),
	}

	cases := []struct {
		id       string
		token    PasswordResetToken
		at       time.Time
		expected bool
	}{
		{id: "valid", token: "token-1", at: now, expected: true},
		{id: "last valid moment", token: "token-1", at: now.Add(time.Hour - time.Nanosecond), expected: true},
		{id: "expired", token: "token-1", at: now.Add(time.Hour), expected: false},
		{id: "other token", token: "token-2", at: now, expected: false},
		{id: "empty token", token: "", at: now, expected: false},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, account.HasLivePasswordResetToken(testcase.token, testcase.at))
		})
	}
}

func TestHasLivePasswordResetTokenWithoutToken(t *testing.T) {
	account := Account{ID: 1, Email: c.NewEmail("a@x.com"), PasswordHash: PasswordHash("hash")}
	require.False(t, account.HasLivePasswordResetToken(PasswordResetToken(""), now))
}

func TestAccountValidate(t *testing.T) {
	valid := Account{ID: 1, Email: c.NewEmail("a@x.com"), PasswordHash: PasswordHash("hash")}
	require.NoError(t, valid.Validate())

	noEmail := valid
	noEmail.Email = ""
	require.Error(t, noEmail.Validate())

	halfToken := valid
	halfToken.PasswordResetToken = c.Some(PasswordResetToken("token"))
	require.Error(t, halfToken.Validate())
}

func TestSecretsAreMaskedWhenFormatted(t *testing.T) {
	require.Equal(t, "***", fmt.Sprint(PasswordResetToken("secret-token")))
	require.Equal(t, "***", fmt.Sprint(RawPassword("secret-password")))
	require.Equal(t, "***", fmt.Sprint(PasswordHash("secret-hash")))
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("get account by email", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "get account by email")
}
