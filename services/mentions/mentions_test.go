package mentions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaybot/core"
	"relaybot/models"
	"relaybot/services/mentions"
)

type mockMentionRulesRepo struct {
	mock.Mock
}

func (m *mockMentionRulesRepo) CreateMentionRule(
	ctx context.Context,
	rule *models.MentionRule,
) (bool, error) {
	args := m.Called(ctx, rule)
	return args.Bool(0), args.Error(1)
}

func (m *mockMentionRulesRepo) GetMentionTexts(
	ctx context.Context,
	ownerUserID, targetChannelID, sourceChannelID string,
) ([]string, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID, sourceChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockMentionRulesRepo) DeleteMentionRules(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText mo.Option[string],
) (int64, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID, sourceChannelID, mentionText)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMentionRulesRepo) WipeMentionRulesTouchingGuild(
	ctx context.Context,
	guildName, ownerUserID string,
) (int64, error) {
	args := m.Called(ctx, guildName, ownerUserID)
	return args.Get(0).(int64), args.Error(1)
}

func TestMentionsService_AddRule(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a wildcard rule", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("CreateMentionRule", ctx, mock.MatchedBy(func(r *models.MentionRule) bool {
			return r.IsWildcard() &&
				r.TargetChannelID == "tgt" &&
				r.MentionText == "@team" &&
				r.OwnerUserID == "owner-1" &&
				r.ID != ""
		})).Return(true, nil)

		rule, err := service.AddRule(ctx, "owner-1", "tgt", mo.None[string](), "@team")
		require.NoError(t, err)
		assert.True(t, rule.IsWildcard())
	})

	t.Run("adds a source-specific rule", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("CreateMentionRule", ctx, mock.MatchedBy(func(r *models.MentionRule) bool {
			return !r.IsWildcard() && *r.SourceChannelID == "src"
		})).Return(true, nil)

		rule, err := service.AddRule(ctx, "owner-1", "tgt", mo.Some("src"), "@team")
		require.NoError(t, err)
		require.NotNil(t, rule.SourceChannelID)
		assert.Equal(t, "src", *rule.SourceChannelID)
	})

	t.Run("duplicate tuple returns ErrAlreadyExists", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("CreateMentionRule", ctx, mock.Anything).Return(false, nil)

		_, err := service.AddRule(ctx, "owner-1", "tgt", mo.None[string](), "@team")
		assert.ErrorIs(t, err, core.ErrAlreadyExists)
	})

	t.Run("empty mention text is rejected", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		_, err := service.AddRule(ctx, "owner-1", "tgt", mo.None[string](), "")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateMentionRule", mock.Anything, mock.Anything)
	})
}

func TestMentionsService_RulesFor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the repository's sorted deduplicated texts", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("GetMentionTexts", ctx, "owner-1", "tgt", "src").
			Return([]string{"@here", "@team"}, nil)

		texts, err := service.RulesFor(ctx, "owner-1", "tgt", "src")
		require.NoError(t, err)
		assert.Equal(t, []string{"@here", "@team"}, texts)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("GetMentionTexts", ctx, "owner-1", "tgt", "src").
			Return(nil, errors.New("connection refused"))

		_, err := service.RulesFor(ctx, "owner-1", "tgt", "src")
		assert.Error(t, err)
	})
}

func TestMentionsService_RemoveRules(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filters through and returns the count", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("DeleteMentionRules", ctx, "owner-1", "tgt", mo.Some("src"), mo.Some("@team")).
			Return(int64(1), nil)

		count, err := service.RemoveRules(ctx, "owner-1", "tgt", mo.Some("src"), mo.Some("@team"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("no filters removes everything on the target", func(t *testing.T) {
		repo := &mockMentionRulesRepo{}
		service := mentions.NewMentionsService(repo)

		repo.On("DeleteMentionRules", ctx, "owner-1", "tgt", mo.None[string](), mo.None[string]()).
			Return(int64(4), nil)

		count, err := service.RemoveRules(ctx, "owner-1", "tgt", mo.None[string](), mo.None[string]())
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestMentionsService_WipeRulesTouchingGuild(t *testing.T) {
	ctx := context.Background()

	repo := &mockMentionRulesRepo{}
	service := mentions.NewMentionsService(repo)

	repo.On("WipeMentionRulesTouchingGuild", ctx, "GuildX", "owner-1").Return(int64(2), nil)

	count, err := service.WipeRulesTouchingGuild(ctx, "owner-1", "GuildX")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
