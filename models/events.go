package models

// MessageEvent is the platform-agnostic shape of an inbound message, mapped
// from the SDK event before the relay dispatcher sees it.
type MessageEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Content   string
	// Bot marks messages authored by automated accounts. The dispatcher
	// drops them to prevent relay loops.
	Bot bool
}
