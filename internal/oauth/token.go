package oauth

import "time"

// defaultExpiresIn applies when a token response carries no expires_in.
const defaultExpiresIn = 3600 * time.Second

type ExternalToken struct {
	UserID       string
	Platform     Platform
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// IsExpired reports whether the access token expired before now. A token
// without an expiry never expires.
func (t ExternalToken) IsExpired() bool {
	return t.expiredAt(time.Now())
}

func (t ExternalToken) expiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
