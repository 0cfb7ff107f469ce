package domain

import "time"

// UsedToken records a consumed form token identifier.
type UsedToken struct {
	JTI       string
	Route     string
	ExpiresAt time.Time // token expiry; the row may be purged after this
	UsedAt    time.Time
}
