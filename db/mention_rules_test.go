package db_test

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaybot/core"
	"relaybot/db"
	"relaybot/models"
	"relaybot/testutils"
)

func newRule(owner, targetChannelID string, sourceChannelID *string, text string) *models.MentionRule {
	return &models.MentionRule{
		ID:              core.NewID("mr"),
		SourceChannelID: sourceChannelID,
		TargetChannelID: targetChannelID,
		MentionText:     text,
		OwnerUserID:     owner,
	}
}

func TestPostgresMentionRulesRepository_CreateMentionRule(t *testing.T) {
	ctx := context.Background()
	dbConn, schema := setupRepoTest(t)

	guildsRepo := db.NewPostgresGuildsRepository(dbConn, schema)
	channelsRepo := db.NewPostgresChannelsRepository(dbConn, schema)
	rulesRepo := db.NewPostgresMentionRulesRepository(dbConn, schema)

	owner := testutils.NewTestOwnerID()
	cleanupOwnerRows(t, dbConn, schema, owner)

	guild := testutils.CreateTestGuild(t, guildsRepo, "mention-create")
	cleanupGuildRows(t, dbConn, schema, guild)
	source := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "source")
	target := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "target")

	t.Run("duplicate wildcard tuple is rejected", func(t *testing.T) {
		created, err := rulesRepo.CreateMentionRule(ctx, newRule(owner, target.ID, nil, "@team"))
		require.NoError(t, err)
		require.True(t, created)

		created, err = rulesRepo.CreateMentionRule(ctx, newRule(owner, target.ID, nil, "@team"))
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("wildcard and source-scoped rows with the same text coexist", func(t *testing.T) {
		created, err := rulesRepo.CreateMentionRule(ctx, newRule(owner, target.ID, &source.ID, "@team"))
		require.NoError(t, err)
		assert.True(t, created)

		created, err = rulesRepo.CreateMentionRule(ctx, newRule(owner, target.ID, &source.ID, "@team"))
		require.NoError(t, err)
		assert.False(t, created, "scoped duplicate must be rejected like the wildcard one")
	})
}

func TestPostgresMentionRulesRepository_GetMentionTexts(t *testing.T) {
	ctx := context.Background()
	dbConn, schema := setupRepoTest(t)

	guildsRepo := db.NewPostgresGuildsRepository(dbConn, schema)
	channelsRepo := db.NewPostgresChannelsRepository(dbConn, schema)
	rulesRepo := db.NewPostgresMentionRulesRepository(dbConn, schema)

	owner := testutils.NewTestOwnerID()
	cleanupOwnerRows(t, dbConn, schema, owner)

	guild := testutils.CreateTestGuild(t, guildsRepo, "mention-read")
	cleanupGuildRows(t, dbConn, schema, guild)
	source := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "source")
	other := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "other")
	target := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "target")

	for _, rule := range []*models.MentionRule{
		newRule(owner, target.ID, nil, "@team"),
		newRule(owner, target.ID, &source.ID, "@team"),
		newRule(owner, target.ID, &source.ID, "@alpha"),
		newRule(owner, target.ID, &other.ID, "@other"),
	} {
		created, err := rulesRepo.CreateMentionRule(ctx, rule)
		require.NoError(t, err)
		require.True(t, created)
	}

	texts, err := rulesRepo.GetMentionTexts(ctx, owner, target.ID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"@alpha", "@team"}, texts,
		"wildcard plus source-scoped, deduplicated, sorted; other sources excluded")
}

func TestPostgresMentionRulesRepository_DeleteMentionRules(t *testing.T) {
	ctx := context.Background()
	dbConn, schema := setupRepoTest(t)

	guildsRepo := db.NewPostgresGuildsRepository(dbConn, schema)
	channelsRepo := db.NewPostgresChannelsRepository(dbConn, schema)
	rulesRepo := db.NewPostgresMentionRulesRepository(dbConn, schema)

	owner := testutils.NewTestOwnerID()
	cleanupOwnerRows(t, dbConn, schema, owner)

	guild := testutils.CreateTestGuild(t, guildsRepo, "mention-delete")
	cleanupGuildRows(t, dbConn, schema, guild)
	source := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "source")
	target := testutils.CreateTestChannel(t, channelsRepo, guild.ID, "target")

	for _, rule := range []*models.MentionRule{
		newRule(owner, target.ID, nil, "@team"),
		newRule(owner, target.ID, &source.ID, "@team"),
		newRule(owner, target.ID, &source.ID, "@alpha"),
	} {
		created, err := rulesRepo.CreateMentionRule(ctx, rule)
		require.NoError(t, err)
		require.True(t, created)
	}

	// Text filter without a source filter hits every scope carrying the text
	deleted, err := rulesRepo.DeleteMentionRules(ctx, owner, target.ID,
		mo.None[string](), mo.Some("@team"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// No filters removes whatever is left for (owner, target)
	deleted, err = rulesRepo.DeleteMentionRules(ctx, owner, target.ID,
		mo.None[string](), mo.None[string]())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
