package directory_test

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaybot/clients"
	"relaybot/clients/discord"
	"relaybot/models"
	"relaybot/services/directory"
)

type mockGuildsRepository struct {
	mock.Mock
}

func (m *mockGuildsRepository) UpsertGuild(ctx context.Context, guild *models.Guild) error {
	args := m.Called(ctx, guild)
	return args.Error(0)
}

func (m *mockGuildsRepository) GetGuildByID(ctx context.Context, id string) (mo.Option[*models.Guild], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Guild]), args.Error(1)
}

func (m *mockGuildsRepository) GetGuildByName(ctx context.Context, name string) (mo.Option[*models.Guild], error) {
	args := m.Called(ctx, name)
	return args.Get(0).(mo.Option[*models.Guild]), args.Error(1)
}

func (m *mockGuildsRepository) ListGuildNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type mockChannelsRepository struct {
	mock.Mock
}

func (m *mockChannelsRepository) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *mockChannelsRepository) GetChannelByID(ctx context.Context, id string) (mo.Option[*models.Channel], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Channel]), args.Error(1)
}

func (m *mockChannelsRepository) GetChannelByName(
	ctx context.Context,
	guildID, name string,
) (mo.Option[*models.Channel], error) {
	args := m.Called(ctx, guildID, name)
	return args.Get(0).(mo.Option[*models.Channel]), args.Error(1)
}

func (m *mockChannelsRepository) ListChannelNames(ctx context.Context, guildID string) ([]string, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).([]string), args.Error(1)
}

func TestDirectoryService_SyncGuild(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the guild and its text channels with # names", func(t *testing.T) {
		guildsRepo := &mockGuildsRepository{}
		channelsRepo := &mockChannelsRepository{}
		client := &discord.MockDiscordClient{}
		service := directory.NewDirectoryService(guildsRepo, channelsRepo, client)

		guildsRepo.On("UpsertGuild", ctx, &models.Guild{ID: "g1", Name: "Alpha"}).Return(nil)
		client.On("ListTextChannels", "g1").Return([]*clients.DiscordChannel{
			{ID: "c1", Name: "alerts", GuildID: "g1"},
			{ID: "c2", Name: "general", GuildID: "g1"},
		}, nil)
		channelsRepo.On("UpsertChannel", ctx, &models.Channel{ID: "c1", Name: "#alerts", GuildID: "g1"}).Return(nil)
		channelsRepo.On("UpsertChannel", ctx, &models.Channel{ID: "c2", Name: "#general", GuildID: "g1"}).Return(nil)

		err := service.SyncGuild(ctx, "g1", "Alpha")
		require.NoError(t, err)
		guildsRepo.AssertExpectations(t)
		channelsRepo.AssertExpectations(t)
	})

	t.Run("rejects an empty guild id", func(t *testing.T) {
		guildsRepo := &mockGuildsRepository{}
		channelsRepo := &mockChannelsRepository{}
		client := &discord.MockDiscordClient{}
		service := directory.NewDirectoryService(guildsRepo, channelsRepo, client)

		err := service.SyncGuild(ctx, "", "Alpha")
		assert.Error(t, err)
		guildsRepo.AssertNotCalled(t, "UpsertGuild", mock.Anything, mock.Anything)
	})
}

func TestDirectoryService_GetChannelByName(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the guild name before the channel lookup", func(t *testing.T) {
		guildsRepo := &mockGuildsRepository{}
		channelsRepo := &mockChannelsRepository{}
		client := &discord.MockDiscordClient{}
		service := directory.NewDirectoryService(guildsRepo, channelsRepo, client)

		guildsRepo.On("GetGuildByName", ctx, "Alpha").
			Return(mo.Some(&models.Guild{ID: "g1", Name: "Alpha"}), nil)
		channelsRepo.On("GetChannelByName", ctx, "g1", "#alerts").
			Return(mo.Some(&models.Channel{ID: "c1", Name: "#alerts", GuildID: "g1"}), nil)

		maybeChannel, err := service.GetChannelByName(ctx, "Alpha", "#alerts")
		require.NoError(t, err)
		require.True(t, maybeChannel.IsPresent())
		assert.Equal(t, "c1", maybeChannel.MustGet().ID)
	})

	t.Run("unknown guild yields none without touching channels", func(t *testing.T) {
		guildsRepo := &mockGuildsRepository{}
		channelsRepo := &mockChannelsRepository{}
		client := &discord.MockDiscordClient{}
		service := directory.NewDirectoryService(guildsRepo, channelsRepo, client)

		guildsRepo.On("GetGuildByName", ctx, "Ghost").
			Return(mo.None[*models.Guild](), nil)

		maybeChannel, err := service.GetChannelByName(ctx, "Ghost", "#alerts")
		require.NoError(t, err)
		assert.False(t, maybeChannel.IsPresent())
		channelsRepo.AssertNotCalled(t, "GetChannelByName", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDirectoryService_ChannelNameCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown guild yields an empty candidate list", func(t *testing.T) {
		guildsRepo := &mockGuildsRepository{}
		channelsRepo := &mockChannelsRepository{}
		client := &discord.MockDiscordClient{}
		service := directory.NewDirectoryService(guildsRepo, channelsRepo, client)

		guildsRepo.On("GetGuildByName", ctx, "Ghost").
			Return(mo.None[*models.Guild](), nil)

		candidates, err := service.ChannelNameCandidates(ctx, "Ghost")
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}
