package model

import "time"

// License entitles a client account to use the register.
type License struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`
	Key       string     `json:"key"`
	Status    string     `json:"status"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// License statuses.
const (
	LicenseActive    = "active"
	LicenseSuspended = "suspended"
)

// Salesperson is a named seller attached to sales for commission tracking.
type Salesperson struct {
	ID        int64      `json:"id"`
	ClientID  *int64     `json:"client_id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
