package domain

import "time"

// User represents an account created through an OAuth login.
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"google_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated profile returned by an identity provider.
type Identity struct {
	Provider  string `json:"provider"`
	Subject   string `json:"subject"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Apply copies profile fields from the identity onto the user.
func (u *User) Apply(identity Identity) {
	if u == nil {
		return
	}
	u.GoogleID = identity.Subject
	u.Name = identity.Name
	u.Email = identity.Email
	u.AvatarURL = identity.AvatarURL
}
