package models

import "time"

// Webhook is the delivery handle for one (owner, target channel) pair.
// It is created lazily on first use and reused thereafter; the store keeps
// at most one row per pair.
type Webhook struct {
	ID          string    `json:"id"             db:"id"`
	ChannelID   string    `json:"channel_id"     db:"channel_id"`
	OwnerUserID string    `json:"owner_user_id"  db:"owner_user_id"`
	Token       string    `json:"token"          db:"token"`
	CreatedAt   time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"     db:"updated_at"`
}
