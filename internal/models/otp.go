package models

import "time"

const (
	PurposeRegister = "register"
	PurposeReset    = "reset"
)

// PendingSignup is the registration payload held on a challenge until
// the code is confirmed. The password is hashed before it is stored.
type PendingSignup struct {
	Name         string
	Mobile       string
	PasswordHash string
}

// OTPChallenge — at most one live challenge per email; reissuing
// replaces the row (and invalidates the previous code) atomically.
type OTPChallenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`

	Pending *PendingSignup `json:"-"` // nil for reset challenges

	CreatedAt time.Time `json:"created_at"`
}
