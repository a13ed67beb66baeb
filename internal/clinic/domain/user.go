package domain

import "time"

// User is a registered account. The failed-attempt counter and lockout expiry
// implement the per-identity lockout state machine: an account is Locked while
// LockedUntil is set and in the future, Active otherwise.
type User struct {
	ID                  string
	Username            string
	PasswordHash        string
	Role                string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked at the given instant. It is
// a pure query; an expired lockout is simply no longer locked.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// RegisterFailure records one failed login attempt. A previously expired
// lockout resets the counter first, so the new count starts at 1. Reaching
// maxAttempts transitions the account to Locked with expiry now + lockFor.
func (u *User) RegisterFailure(now time.Time, maxAttempts int, lockFor time.Duration) {
	if u.LockedUntil != nil && !now.Before(*u.LockedUntil) {
		u.ResetLockout()
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := now.Add(lockFor)
		u.LockedUntil = &until
	}
}

// ResetLockout clears the failed-attempt counter and any lockout expiry.
// Called on every successful login.
func (u *User) ResetLockout() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

func (u *User) HasRole(role string) bool {
	return u.Role == role
}

func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
