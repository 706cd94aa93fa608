package directory

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"relaybot/clients"
	"relaybot/models"
)

// GuildsRepository is the slice of the guilds store the directory needs
type GuildsRepository interface {
	UpsertGuild(ctx context.Context, guild *models.Guild) error
	GetGuildByID(ctx context.Context, id string) (mo.Option[*models.Guild], error)
	GetGuildByName(ctx context.Context, name string) (mo.Option[*models.Guild], error)
	ListGuildNames(ctx context.Context) ([]string, error)
}

// ChannelsRepository is the slice of the channels store the directory needs
type ChannelsRepository interface {
	UpsertChannel(ctx context.Context, channel *models.Channel) error
	GetChannelByID(ctx context.Context, id string) (mo.Option[*models.Channel], error)
	GetChannelByName(ctx context.Context, guildID, name string) (mo.Option[*models.Channel], error)
	ListChannelNames(ctx context.Context, guildID string) ([]string, error)
}

// DirectoryService mirrors the gateway's view of guilds and text channels
// into the store. Channel display names are stored with a leading "#" so
// they live in the same namespace as user-typed channel fragments.
type DirectoryService struct {
	guildsRepo    GuildsRepository
	channelsRepo  ChannelsRepository
	discordClient clients.DiscordClient
}

func NewDirectoryService(
	guildsRepo GuildsRepository,
	channelsRepo ChannelsRepository,
	discordClient clients.DiscordClient,
) *DirectoryService {
	return &DirectoryService{
		guildsRepo:    guildsRepo,
		channelsRepo:  channelsRepo,
		discordClient: discordClient,
	}
}

// SyncGuild upserts one guild and every text channel the platform reports
// for it. Idempotent; called on guild-create events and full syncs.
func (s *DirectoryService) SyncGuild(ctx context.Context, guildID, guildName string) error {
	log.Printf("📋 Starting to sync guild %s (%s)", guildName, guildID)

	if guildID == "" {
		return fmt.Errorf("guild ID cannot be empty")
	}

	guild := &models.Guild{ID: guildID, Name: guildName}
	if err := s.guildsRepo.UpsertGuild(ctx, guild); err != nil {
		return fmt.Errorf("failed to upsert guild %s: %w", guildID, err)
	}

	channels, err := s.discordClient.ListTextChannels(guildID)
	if err != nil {
		return fmt.Errorf("failed to enumerate channels for guild %s: %w", guildID, err)
	}

	for _, ch := range channels {
		channel := &models.Channel{
			ID:      ch.ID,
			Name:    "#" + ch.Name,
			GuildID: guildID,
		}
		if err := s.channelsRepo.UpsertChannel(ctx, channel); err != nil {
			return fmt.Errorf("failed to upsert channel %s: %w", ch.ID, err)
		}
	}

	log.Printf("📋 Completed successfully - synced guild %s with %d text channels", guildName, len(channels))
	return nil
}

// SyncAllGuilds refreshes the directory for every guild the bot is in
func (s *DirectoryService) SyncAllGuilds(ctx context.Context) error {
	log.Printf("📋 Starting to sync all guilds")

	guilds, err := s.discordClient.ListGuilds()
	if err != nil {
		return fmt.Errorf("failed to enumerate guilds: %w", err)
	}

	for _, g := range guilds {
		if err := s.SyncGuild(ctx, g.ID, g.Name); err != nil {
			return err
		}
	}

	log.Printf("📋 Completed successfully - synced %d guilds", len(guilds))
	return nil
}

func (s *DirectoryService) GetGuildByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Guild], error) {
	if name == "" {
		return mo.None[*models.Guild](), fmt.Errorf("guild name cannot be empty")
	}
	return s.guildsRepo.GetGuildByName(ctx, name)
}

func (s *DirectoryService) GetChannelByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Channel], error) {
	if id == "" {
		return mo.None[*models.Channel](), fmt.Errorf("channel ID cannot be empty")
	}
	return s.channelsRepo.GetChannelByID(ctx, id)
}

// GetChannelByName resolves a "#name" display name within a guild named by
// its display name.
func (s *DirectoryService) GetChannelByName(
	ctx context.Context,
	guildName, channelName string,
) (mo.Option[*models.Channel], error) {
	maybeGuild, err := s.guildsRepo.GetGuildByName(ctx, guildName)
	if err != nil {
		return mo.None[*models.Channel](), fmt.Errorf("failed to resolve guild %q: %w", guildName, err)
	}
	if !maybeGuild.IsPresent() {
		return mo.None[*models.Channel](), nil
	}

	return s.channelsRepo.GetChannelByName(ctx, maybeGuild.MustGet().ID, channelName)
}

// GuildNameCandidates lists all known guild names for autocomplete
func (s *DirectoryService) GuildNameCandidates(ctx context.Context) ([]string, error) {
	return s.guildsRepo.ListGuildNames(ctx)
}

// ChannelNameCandidates lists the channel display names of one guild for
// autocomplete. Unknown guild names yield an empty candidate list.
func (s *DirectoryService) ChannelNameCandidates(ctx context.Context, guildName string) ([]string, error) {
	maybeGuild, err := s.guildsRepo.GetGuildByName(ctx, guildName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guild %q: %w", guildName, err)
	}
	if !maybeGuild.IsPresent() {
		return []string{}, nil
	}

	return s.channelsRepo.ListChannelNames(ctx, maybeGuild.MustGet().ID)
}
