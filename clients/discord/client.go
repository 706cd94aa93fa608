package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"relaybot/clients"
)

// DiscordClient implements the clients.DiscordClient interface on top of a
// shared discordgo session. The session's gateway lifecycle belongs to the
// events handler; this client only issues REST calls through it.
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient creates a Discord client backed by an existing session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// GetBotUser fetches the bot's own user record
func (c *DiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	user, err := c.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}

	return &clients.DiscordBotUser{
		ID:       user.ID,
		Username: user.Username,
		Bot:      user.Bot,
	}, nil
}

// ListGuilds enumerates the guilds the bot is installed in
func (c *DiscordClient) ListGuilds() ([]*clients.DiscordGuild, error) {
	discordGuilds, err := c.session.UserGuilds(200, "", "", false)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}

	guilds := make([]*clients.DiscordGuild, 0, len(discordGuilds))
	for _, g := range discordGuilds {
		guilds = append(guilds, &clients.DiscordGuild{
			ID:   g.ID,
			Name: g.Name,
		})
	}

	return guilds, nil
}

// ListTextChannels enumerates the text channels of one guild. Voice,
// category and thread channels are filtered out; only text channels are
// relay endpoints.
func (c *DiscordClient) ListTextChannels(guildID string) ([]*clients.DiscordChannel, error) {
	discordChannels, err := c.session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels for guild %s: %w", guildID, err)
	}

	channels := make([]*clients.DiscordChannel, 0, len(discordChannels))
	for _, ch := range discordChannels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		channels = append(channels, &clients.DiscordChannel{
			ID:      ch.ID,
			Name:    ch.Name,
			GuildID: ch.GuildID,
		})
	}

	return channels, nil
}

// CreateChannelWebhook asks the platform for a new named webhook on the
// channel. Fails when the bot lacks the Manage Webhooks permission there.
func (c *DiscordClient) CreateChannelWebhook(channelID, name string) (*clients.DiscordWebhook, error) {
	webhook, err := c.session.WebhookCreate(channelID, name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook on channel %s: %w", channelID, err)
	}

	return &clients.DiscordWebhook{
		ID:        webhook.ID,
		ChannelID: webhook.ChannelID,
		Token:     webhook.Token,
		Name:      webhook.Name,
	}, nil
}

// ExecuteWebhook posts content through a delivery handle
func (c *DiscordClient) ExecuteWebhook(webhookID, token, content string) error {
	_, err := c.session.WebhookExecute(webhookID, token, false, &discordgo.WebhookParams{
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to execute webhook %s: %w", webhookID, err)
	}

	return nil
}

// GetWebhookChannel resolves a webhook id back to its owning channel
func (c *DiscordClient) GetWebhookChannel(webhookID string) (string, error) {
	webhook, err := c.session.Webhook(webhookID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch webhook %s: %w", webhookID, err)
	}

	return webhook.ChannelID, nil
}
