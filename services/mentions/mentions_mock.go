package mentions

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"relaybot/models"
)

type MockMentionsService struct {
	mock.Mock
}

func (m *MockMentionsService) RulesFor(
	ctx context.Context,
	ownerUserID, targetChannelID, sourceChannelID string,
) ([]string, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID, sourceChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMentionsService) AddRule(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText string,
) (*models.MentionRule, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID, sourceChannelID, mentionText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentionRule), args.Error(1)
}

func (m *MockMentionsService) RemoveRules(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText mo.Option[string],
) (int64, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID, sourceChannelID, mentionText)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMentionsService) WipeRulesTouchingGuild(
	ctx context.Context,
	ownerUserID, guildName string,
) (int64, error) {
	args := m.Called(ctx, ownerUserID, guildName)
	return args.Get(0).(int64), args.Error(1)
}
