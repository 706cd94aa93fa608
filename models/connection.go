package models

import "time"

// Connection represents "messages from source, authored by owner, are
// relayed to target using the given webhook". At most one connection exists
// per (source, target, owner) triple; the webhook ID is frozen at creation
// time and is not re-resolved per message.
type Connection struct {
	ID              string    `json:"id"                db:"id"`
	SourceChannelID string    `json:"source_channel_id" db:"source_channel_id"`
	TargetChannelID string    `json:"target_channel_id" db:"target_channel_id"`
	OwnerUserID     string    `json:"owner_user_id"     db:"owner_user_id"`
	WebhookID       string    `json:"webhook_id"        db:"webhook_id"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"        db:"updated_at"`
}

// RelayTarget is the dispatch read model: one delivery destination for a
// source channel, with the webhook credentials needed to execute it.
type RelayTarget struct {
	TargetChannelID string `json:"target_channel_id" db:"target_channel_id"`
	WebhookID       string `json:"webhook_id"        db:"webhook_id"`
	WebhookToken    string `json:"webhook_token"     db:"webhook_token"`
}

// ConnectionDescriptor is one line of the user-facing connection listing:
// "source → target (target guild)".
type ConnectionDescriptor struct {
	SourceChannelName string `json:"source_channel_name" db:"source_channel_name"`
	SourceGuildName   string `json:"source_guild_name"   db:"source_guild_name"`
	TargetChannelName string `json:"target_channel_name" db:"target_channel_name"`
	TargetGuildName   string `json:"target_guild_name"   db:"target_guild_name"`
}
