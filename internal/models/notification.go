package models

import (
	"time"
)

// Notification is written in the same transaction as the movement it
// describes; delivery happens later and never affects the ledger.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Sent      bool
	CreatedAt time.Time
}
