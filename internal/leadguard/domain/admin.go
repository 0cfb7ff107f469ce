package domain

import "time"

// Admin is an operator allowed to review leads.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC string
	TOTPSealed   []byte // sealed base32 TOTP secret, nil when not enrolled
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

func (a Admin) HasTOTP() bool { return len(a.TOTPSealed) > 0 }
