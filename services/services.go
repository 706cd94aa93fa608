package services

import (
	"context"

	"github.com/samber/mo"

	"relaybot/models"
)

// DirectoryService keeps the guild/channel directory in sync with what the
// gateway reports and serves the lookups and autocomplete candidate lists
// built on it.
type DirectoryService interface {
	SyncGuild(ctx context.Context, guildID, guildName string) error
	SyncAllGuilds(ctx context.Context) error
	GetGuildByName(ctx context.Context, name string) (mo.Option[*models.Guild], error)
	GetChannelByID(ctx context.Context, id string) (mo.Option[*models.Channel], error)
	GetChannelByName(ctx context.Context, guildName, channelName string) (mo.Option[*models.Channel], error)
	GuildNameCandidates(ctx context.Context) ([]string, error)
	ChannelNameCandidates(ctx context.Context, guildName string) ([]string, error)
}

// ConnectionsService is the connection registry: it owns the source→target
// relay graph, scoped per owning user. Every operation filters by owner.
type ConnectionsService interface {
	CreateConnection(
		ctx context.Context,
		ownerUserID, sourceChannelID, targetChannelID string,
	) (*models.Connection, error)
	DeleteConnection(ctx context.Context, ownerUserID, sourceChannelID, targetChannelID string) error
	DeleteConnectionsFromSource(ctx context.Context, ownerUserID, sourceChannelID string) (int64, error)
	ListConnections(ctx context.Context, ownerUserID string) (map[string][]*models.ConnectionDescriptor, error)
	GetRelayTargets(ctx context.Context, ownerUserID, sourceChannelID string) ([]*models.RelayTarget, error)
	WipeConnectionsTouchingGuild(ctx context.Context, ownerUserID, guildName string) (int64, error)
}

// WebhooksService resolves (owner, target channel) to a delivery handle,
// creating one on the platform on first use.
type WebhooksService interface {
	Resolve(ctx context.Context, ownerUserID, targetChannelID string) (*models.Webhook, error)
}

// MentionsService resolves and mutates the mention overlay rules that get
// prepended to relayed content.
type MentionsService interface {
	RulesFor(ctx context.Context, ownerUserID, targetChannelID, sourceChannelID string) ([]string, error)
	AddRule(
		ctx context.Context,
		ownerUserID, targetChannelID string,
		sourceChannelID mo.Option[string],
		mentionText string,
	) (*models.MentionRule, error)
	RemoveRules(
		ctx context.Context,
		ownerUserID, targetChannelID string,
		sourceChannelID mo.Option[string],
		mentionText mo.Option[string],
	) (int64, error)
	WipeRulesTouchingGuild(ctx context.Context, ownerUserID, guildName string) (int64, error)
}
