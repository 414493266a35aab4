package model

import (
	"encoding/json"
	"time"
)

// Template is a named, reusable schedule pattern. Data is stored as-is.
type Template struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
