package discord

import (
	"github.com/stretchr/testify/mock"

	"relaybot/clients"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// GetBotUser mocks fetching the bot's own user record
func (m *MockDiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordBotUser), args.Error(1)
}

// ListGuilds mocks guild enumeration
func (m *MockDiscordClient) ListGuilds() ([]*clients.DiscordGuild, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*clients.DiscordGuild), args.Error(1)
}

// ListTextChannels mocks text channel enumeration for one guild
func (m *MockDiscordClient) ListTextChannels(guildID string) ([]*clients.DiscordChannel, error) {
	args := m.Called(guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*clients.DiscordChannel), args.Error(1)
}

// CreateChannelWebhook mocks webhook creation
func (m *MockDiscordClient) CreateChannelWebhook(channelID, name string) (*clients.DiscordWebhook, error) {
	args := m.Called(channelID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordWebhook), args.Error(1)
}

// ExecuteWebhook mocks posting content through a delivery handle
func (m *MockDiscordClient) ExecuteWebhook(webhookID, token, content string) error {
	args := m.Called(webhookID, token, content)
	return args.Error(0)
}

// GetWebhookChannel mocks resolving a webhook id to its owning channel
func (m *MockDiscordClient) GetWebhookChannel(webhookID string) (string, error) {
	args := m.Called(webhookID)
	return args.String(0), args.Error(1)
}
