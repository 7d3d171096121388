package schema

import (
	"encoding/json"
	"time"
)

type Notification struct {
	To          string            `json:"to"`
	Template    string            `json:"template"`
	Context     map[string]string `json:"context"`
	RequestedAt time.Time         `json:"requestedAt"`
}

func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}
