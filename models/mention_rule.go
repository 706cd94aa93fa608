package models

import "time"

// MentionRule adds mention text to every message relayed into a target
// channel for an owner. A nil SourceChannelID makes the rule a wildcard:
// it fires for every source relaying into the target. Wildcard and
// source-specific rules with the same text are distinct rows; the read path
// dedupes them before dispatch.
type MentionRule struct {
	ID              string    `json:"id"                db:"id"`
	SourceChannelID *string   `json:"source_channel_id" db:"source_channel_id"`
	TargetChannelID string    `json:"target_channel_id" db:"target_channel_id"`
	MentionText     string    `json:"mention_text"      db:"mention_text"`
	OwnerUserID     string    `json:"owner_user_id"     db:"owner_user_id"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"        db:"updated_at"`
}

// IsWildcard reports whether the rule applies to all sources.
func (r *MentionRule) IsWildcard() bool {
	return r.SourceChannelID == nil
}
