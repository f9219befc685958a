package domain

import "time"

// Client is an agency customer whose websites are managed in the panel.
type Client struct {
	ID        string    `json:"clientId"`
	UserID    string    `json:"userId"` // panel user the client belongs to
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
