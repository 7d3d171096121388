package session

import (
	"streemi/internal/core/services/csrf"

	"github.com/google/uuid"
)

// UUID identifies a browser for CSRF token binding.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (g *UUID) GenerateClientID() csrf.ClientID {
	return csrf.ClientID(uuid.New().String())
}
