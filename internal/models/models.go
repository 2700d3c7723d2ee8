package models

import "time"

// Account holds the credential record for a registered user. The identity
// shown to other users lives in UserProfile; the two are created by separate
// calls during registration, so an account can briefly exist without a profile.
type Account struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile is the public identity document keyed by its owning account.
type UserProfile struct {
	ID        string
	AccountID string
	Email     string
	Username  string
	AvatarURL string
	CreatedAt time.Time
}

// VideoPost is a published video with its thumbnail and creator reference.
// Posts are immutable once created; no update or delete surface exists.
type VideoPost struct {
	ID           string
	Title        string
	Prompt       string
	ThumbnailURL string
	VideoURL     string
	CreatorID    string
	CreatedAt    time.Time

	// Creator is populated on reads that join the profile table.
	Creator *UserProfile
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
