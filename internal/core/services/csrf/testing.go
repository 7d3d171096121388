package csrf

import (
	"context"
	"fmt"
)

// FakeTokenManager issues "<action>:<clientID>" and accepts exactly that.
type FakeTokenManager struct {
	ValidateCalls int
}

func NewFakeTokenManager() *FakeTokenManager {
	return &FakeTokenManager{}
}

func (m *FakeTokenManager) IssueCsrfToken(action string, clientID ClientID) Token {
	return Token(fmt.Sprintf("%s:%s", action, clientID))
}

func (m *FakeTokenManager) ValidateCsrfToken(ctx context.Context, action string, clientID ClientID, token Token) bool {
	m.ValidateCalls++
	return token == m.IssueCsrfToken(action, clientID)
}
