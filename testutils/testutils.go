package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"relaybot/config"
	"relaybot/db"
	"relaybot/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From package directories
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// NewTestOwnerID returns a unique owner user id so parallel test runs never
// collide on ownership-scoped rows
func NewTestOwnerID() string {
	return "owner-" + uuid.New().String()
}

// CreateTestGuild seeds a guild row with a unique ID to avoid constraint violations
func CreateTestGuild(t *testing.T, guildsRepo *db.PostgresGuildsRepository, name string) *models.Guild {
	guild := &models.Guild{
		ID:   uuid.New().String(),
		Name: name + "-" + uuid.New().String(),
	}
	err := guildsRepo.UpsertGuild(context.Background(), guild)
	require.NoError(t, err, "Failed to create test guild")
	return guild
}

// CreateTestChannel seeds a channel row in the given guild
func CreateTestChannel(t *testing.T, channelsRepo *db.PostgresChannelsRepository, guildID, name string) *models.Channel {
	channel := &models.Channel{
		ID:      uuid.New().String(),
		Name:    "#" + name,
		GuildID: guildID,
	}
	err := channelsRepo.UpsertChannel(context.Background(), channel)
	require.NoError(t, err, "Failed to create test channel")
	return channel
}

// CreateTestWebhook seeds a delivery webhook for (owner, channel)
func CreateTestWebhook(t *testing.T, webhooksRepo *db.PostgresWebhooksRepository, ownerUserID, channelID string) *models.Webhook {
	webhook := &models.Webhook{
		ID:          uuid.New().String(),
		ChannelID:   channelID,
		OwnerUserID: ownerUserID,
		Token:       "test-token-" + uuid.New().String(),
	}
	err := webhooksRepo.UpsertWebhook(context.Background(), webhook)
	require.NoError(t, err, "Failed to create test webhook")
	return webhook
}
