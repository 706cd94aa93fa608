package clients

// DiscordBotUser represents the bot's own user information
type DiscordBotUser struct {
	ID       string
	Username string
	Bot      bool
}

// DiscordGuild represents Discord guild information
type DiscordGuild struct {
	ID   string
	Name string
}

// DiscordChannel represents Discord channel information
type DiscordChannel struct {
	ID      string
	Name    string
	GuildID string
}

// DiscordWebhook is a platform-issued delivery handle bound to one channel
type DiscordWebhook struct {
	ID        string
	ChannelID string
	Token     string
	Name      string
}

// DiscordClient defines the interface for the Discord API operations the
// relay core needs. The core never manages the gateway session lifecycle;
// that stays with the handler that owns the session.
type DiscordClient interface {
	// Bot operations
	GetBotUser() (*DiscordBotUser, error)

	// Directory operations
	ListGuilds() ([]*DiscordGuild, error)
	ListTextChannels(guildID string) ([]*DiscordChannel, error)

	// Webhook operations
	CreateChannelWebhook(channelID, name string) (*DiscordWebhook, error)
	ExecuteWebhook(webhookID, token, content string) error
	GetWebhookChannel(webhookID string) (string, error)
}
