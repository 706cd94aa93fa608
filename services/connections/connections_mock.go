package connections

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relaybot/models"
)

type MockConnectionsService struct {
	mock.Mock
}

func (m *MockConnectionsService) CreateConnection(
	ctx context.Context,
	ownerUserID, sourceChannelID, targetChannelID string,
) (*models.Connection, error) {
	args := m.Called(ctx, ownerUserID, sourceChannelID, targetChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

func (m *MockConnectionsService) DeleteConnection(
	ctx context.Context,
	ownerUserID, sourceChannelID, targetChannelID string,
) error {
	args := m.Called(ctx, ownerUserID, sourceChannelID, targetChannelID)
	return args.Error(0)
}

func (m *MockConnectionsService) DeleteConnectionsFromSource(
	ctx context.Context,
	ownerUserID, sourceChannelID string,
) (int64, error) {
	args := m.Called(ctx, ownerUserID, sourceChannelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConnectionsService) ListConnections(
	ctx context.Context,
	ownerUserID string,
) (map[string][]*models.ConnectionDescriptor, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*models.ConnectionDescriptor), args.Error(1)
}

func (m *MockConnectionsService) GetRelayTargets(
	ctx context.Context,
	ownerUserID, sourceChannelID string,
) ([]*models.RelayTarget, error) {
	args := m.Called(ctx, ownerUserID, sourceChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RelayTarget), args.Error(1)
}

func (m *MockConnectionsService) WipeConnectionsTouchingGuild(
	ctx context.Context,
	ownerUserID, guildName string,
) (int64, error) {
	args := m.Called(ctx, ownerUserID, guildName)
	return args.Get(0).(int64), args.Error(1)
}
