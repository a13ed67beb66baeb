package domain

import "time"

// Session is a persisted refresh-token record. Logout and admin force-logout
// revoke sessions; they are never physically deleted except when trimming the
// oldest beyond the per-user cap.
type Session struct {
	ID           string
	UserID       string
	RefreshToken string
	IPAddress    string
	UserAgent    string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	Revoked      bool
}
