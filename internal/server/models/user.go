package models

import "crypto/subtle"

// SubscriptionTier is informational and carries no access rights.
type SubscriptionTier string

const (
	TierStarter  SubscriptionTier = "starter"
	TierPro      SubscriptionTier = "pro"
	TierBusiness SubscriptionTier = "business"
)

// Valid reports whether t is one of the known tiers.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierStarter, TierPro, TierBusiness:
		return true
	}
	return false
}

// User is the account record. Token is the single live session: at most
// one token is valid for a user at any time, and replacing or clearing it
// revokes whatever was issued before.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Token             *string
	Subscription      SubscriptionTier
	AvatarURL         string
	Verified          bool
	VerificationToken *string
}

// StartSession makes token the only valid session for u.
func (u *User) StartSession(token string) {
	u.Token = &token
}

// EndSession clears the session slot. Calling it twice is harmless.
func (u *User) EndSession() {
	u.Token = nil
}

// HoldsSession reports whether presented is the current session token.
func (u *User) HoldsSession(presented string) bool {
	if u.Token == nil || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.Token), []byte(presented)) == 1
}

// UserView is the public representation of a user. Hashes and tokens are
// never part of it.
type UserView struct {
	Email        string           `json:"email"`
	Subscription SubscriptionTier `json:"subscription"`
	AvatarURL    string           `json:"avatarURL"`
	Verify       bool             `json:"verify"`
}

func (u *User) View() UserView {
	return UserView{
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
		Verify:       u.Verified,
	}
}
