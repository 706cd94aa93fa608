package models

import "time"

// Guild represents a Discord server the bot has been observed in.
// One row per distinct guild; rows are upserted whenever the gateway
// reports the bot's membership.
type Guild struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Channel represents a text channel in a known guild. Name is stored with a
// leading "#" so that matcher candidates and user-typed fragments share one
// namespace. A channel row is retained even when no connection or mention
// rule references it anymore.
type Channel struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	GuildID   string    `json:"guild_id"   db:"guild_id"`
	WebhookID *string   `json:"webhook_id" db:"webhook_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
