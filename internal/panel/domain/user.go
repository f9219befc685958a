package domain

import "time"

type User struct {
	ID              string
	FullName        string
	Email           string
	PasswordHash    string     // argon2 encoded
	EmailVerifiedAt *time.Time // nil until the magic verification link is consumed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user has completed email verification.
func (u User) Verified() bool { return u.EmailVerifiedAt != nil }

// Profile is the wire representation of a user embedded in token
// responses. Credential fields never leave the service.
type Profile struct {
	ID            string `json:"id"`
	FullName      string `json:"fullname"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// Profile returns the public view of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		EmailVerified: u.Verified(),
	}
}
