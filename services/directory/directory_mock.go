package directory

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"relaybot/models"
)

type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) SyncGuild(ctx context.Context, guildID, guildName string) error {
	args := m.Called(ctx, guildID, guildName)
	return args.Error(0)
}

func (m *MockDirectoryService) SyncAllGuilds(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDirectoryService) GetGuildByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Guild], error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return mo.None[*models.Guild](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Guild]), args.Error(1)
}

func (m *MockDirectoryService) GetChannelByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Channel], error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return mo.None[*models.Channel](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Channel]), args.Error(1)
}

func (m *MockDirectoryService) GetChannelByName(
	ctx context.Context,
	guildName, channelName string,
) (mo.Option[*models.Channel], error) {
	args := m.Called(ctx, guildName, channelName)
	if args.Get(0) == nil {
		return mo.None[*models.Channel](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Channel]), args.Error(1)
}

func (m *MockDirectoryService) GuildNameCandidates(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDirectoryService) ChannelNameCandidates(
	ctx context.Context,
	guildName string,
) ([]string, error) {
	args := m.Called(ctx, guildName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
