package models

import "time"

// Client is a connected route server user
type Client struct {
	// From JWT claims; empty when authentication is disabled
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Permissions int64  `json:"permissions"`
	Activated   int64  `json:"activated"`
	AuthMethod  string `json:"auth_method"`

	// Connection state
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Anonymous returns the client used when authentication is disabled.
func Anonymous(remoteAddr string) *Client {
	return &Client{
		ID:         "anonymous",
		Username:   "anonymous",
		Activated:  1,
		RemoteAddr: remoteAddr,
	}
}

// IsActive checks if the account is activated and not banned
func (c *Client) IsActive() bool {
	// activated > 0 means activated
	// activated == 0 means not activated
	// activated == -1 means banned
	return c.Activated > 0
}

// IsBanned checks if the account is banned
func (c *Client) IsBanned() bool {
	return c.Activated == -1
}
