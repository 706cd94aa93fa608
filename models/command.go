package models

// CommandKind is the closed set of relay commands. Raw interaction data is
// decoded into exactly one of these at the platform boundary; nothing below
// the command surface branches on free-text command words.
type CommandKind string

const (
	CommandConnect       CommandKind = "connect"
	CommandDisconnect    CommandKind = "disconnect"
	CommandDisconnectAll CommandKind = "disconnect_all"
	CommandList          CommandKind = "list"
	CommandMentionAdd    CommandKind = "mention_add"
	CommandMentionRemove CommandKind = "mention_remove"
	CommandWipeGuild     CommandKind = "wipe_guild"
)

// RelayCommand is one decoded command invocation. Guild and channel fields
// hold the user-typed display names ("#channel" for channels); the command
// surface resolves them to IDs through the directory and name matcher.
// OwnerUserID scopes every operation to the invoking user.
type RelayCommand struct {
	Kind        CommandKind
	OwnerUserID string

	SourceGuildName   string
	SourceChannelName string
	TargetGuildName   string
	TargetChannelName string

	// MentionText is the role/user mention for mention commands. Empty on
	// mention_remove means "remove every mention in the selected scope".
	MentionText string

	// GuildName is the single-guild argument of wipe_guild.
	GuildName string
}

// CommandResult is what the platform boundary reports back to the user.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
