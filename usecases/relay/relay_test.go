package relay_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaybot/clients/discord"
	"relaybot/models"
	"relaybot/services/connections"
	"relaybot/services/mentions"
	"relaybot/usecases/relay"
)

func newEvent() models.MessageEvent {
	return models.MessageEvent{
		GuildID:   "guild-1",
		ChannelID: "src",
		MessageID: "msg-1",
		UserID:    "owner-1",
		Content:   "AAPL calls look good",
	}
}

func TestRelayUseCase_ProcessMessageEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores bot-authored messages", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		event := newEvent()
		event.Bot = true

		err := usecase.ProcessMessageEvent(ctx, event)
		require.NoError(t, err)
		connectionsService.AssertNotCalled(t, "GetRelayTargets", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no targets means no deliveries", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{}, nil)

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		require.NoError(t, err)
		client.AssertNotCalled(t, "ExecuteWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivers to every target with its own overlay", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{
				{TargetChannelID: "tgt-1", WebhookID: "wh-1", WebhookToken: "tok-1"},
				{TargetChannelID: "tgt-2", WebhookID: "wh-2", WebhookToken: "tok-2"},
			}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-1", "src").
			Return([]string{"@team", "@trader"}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-2", "src").
			Return([]string{}, nil)
		client.On("ExecuteWebhook", "wh-1", "tok-1", "@team @trader\nAAPL calls look good").Return(nil)
		client.On("ExecuteWebhook", "wh-2", "tok-2", "AAPL calls look good").Return(nil)

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("one failed delivery does not abort the others", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{
				{TargetChannelID: "tgt-1", WebhookID: "wh-1", WebhookToken: "tok-1"},
				{TargetChannelID: "tgt-2", WebhookID: "wh-2", WebhookToken: "tok-2"},
			}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", mock.Anything, "src").
			Return([]string{}, nil)
		client.On("ExecuteWebhook", "wh-1", "tok-1", mock.Anything).
			Return(errors.New("webhook was deleted"))
		client.On("ExecuteWebhook", "wh-2", "tok-2", mock.Anything).Return(nil)

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		require.NoError(t, err, "delivery failures are fire-and-forget")
		client.AssertCalled(t, "ExecuteWebhook", "wh-2", "tok-2", "AAPL calls look good")
	})

	t.Run("permanent platform refusal is not retried", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{
				{TargetChannelID: "tgt-1", WebhookID: "wh-1", WebhookToken: "tok-1"},
			}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-1", "src").
			Return([]string{}, nil)
		client.On("ExecuteWebhook", "wh-1", "tok-1", mock.Anything).
			Return(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "ExecuteWebhook", 1)
	})

	t.Run("transient failures are retried up to the bound", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{
				{TargetChannelID: "tgt-1", WebhookID: "wh-1", WebhookToken: "tok-1"},
			}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-1", "src").
			Return([]string{}, nil)
		client.On("ExecuteWebhook", "wh-1", "tok-1", mock.Anything).
			Return(errors.New("connection reset"))

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "ExecuteWebhook", 3)
	})

	t.Run("store failure on target lookup propagates", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return(nil, errors.New("connection refused"))

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		assert.Error(t, err)
	})

	t.Run("overlay store failure is reported but siblings still deliver", func(t *testing.T) {
		client := &discord.MockDiscordClient{}
		connectionsService := &connections.MockConnectionsService{}
		mentionsService := &mentions.MockMentionsService{}
		usecase := relay.NewRelayUseCase(client, connectionsService, mentionsService)

		connectionsService.On("GetRelayTargets", ctx, "owner-1", "src").
			Return([]*models.RelayTarget{
				{TargetChannelID: "tgt-1", WebhookID: "wh-1", WebhookToken: "tok-1"},
				{TargetChannelID: "tgt-2", WebhookID: "wh-2", WebhookToken: "tok-2"},
			}, nil)
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-1", "src").
			Return(nil, errors.New("connection refused"))
		mentionsService.On("RulesFor", ctx, "owner-1", "tgt-2", "src").
			Return([]string{}, nil)
		client.On("ExecuteWebhook", "wh-2", "tok-2", mock.Anything).Return(nil)

		err := usecase.ProcessMessageEvent(ctx, newEvent())
		assert.Error(t, err, "store errors are never silently swallowed")
		client.AssertCalled(t, "ExecuteWebhook", "wh-2", "tok-2", "AAPL calls look good")
		client.AssertNotCalled(t, "ExecuteWebhook", "wh-1", "tok-1", mock.Anything)
	})
}
