package webhooks

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"relaybot/clients"
	"relaybot/core"
	"relaybot/models"
)

// WebhooksRepository is the slice of the webhooks store the resolver needs
type WebhooksRepository interface {
	GetWebhook(ctx context.Context, ownerUserID, channelID string) (mo.Option[*models.Webhook], error)
	UpsertWebhook(ctx context.Context, webhook *models.Webhook) error
}

// WebhooksService maps (owner, target channel) to a delivery handle. The
// handle is created on the platform lazily on first use and reused for
// every later connection to the same pair.
type WebhooksService struct {
	webhooksRepo  WebhooksRepository
	discordClient clients.DiscordClient
}

func NewWebhooksService(
	webhooksRepo WebhooksRepository,
	discordClient clients.DiscordClient,
) *WebhooksService {
	return &WebhooksService{
		webhooksRepo:  webhooksRepo,
		discordClient: discordClient,
	}
}

// Resolve returns the existing webhook for (owner, target channel), or asks
// the platform to create one named after the owner and persists it. A stored
// webhook that no longer resolves to the target channel is replaced. When
// the platform refuses creation, Resolve fails with ErrDeliveryUnavailable
// and persists nothing.
func (s *WebhooksService) Resolve(
	ctx context.Context,
	ownerUserID, targetChannelID string,
) (*models.Webhook, error) {
	log.Printf("📋 Starting to resolve webhook for owner %s, channel %s", ownerUserID, targetChannelID)

	if ownerUserID == "" {
		return nil, fmt.Errorf("owner user ID cannot be empty")
	}
	if targetChannelID == "" {
		return nil, fmt.Errorf("target channel ID cannot be empty")
	}

	maybeWebhook, err := s.webhooksRepo.GetWebhook(ctx, ownerUserID, targetChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up webhook: %w", err)
	}
	if maybeWebhook.IsPresent() {
		webhook := maybeWebhook.MustGet()
		// A stored webhook can go stale when someone deletes it on the
		// platform side; verify it still points at the target channel and
		// recreate it when it does not.
		channelID, err := s.discordClient.GetWebhookChannel(webhook.ID)
		if err == nil && channelID == targetChannelID {
			log.Printf("📋 Completed successfully - reusing webhook %s", webhook.ID)
			return webhook, nil
		}
		log.Printf("⚠️ Stored webhook %s for channel %s is stale, recreating", webhook.ID, targetChannelID)
	}

	created, err := s.discordClient.CreateChannelWebhook(targetChannelID, webhookName(ownerUserID))
	if err != nil {
		log.Printf("❌ Platform refused webhook creation on channel %s: %v", targetChannelID, err)
		return nil, fmt.Errorf("%w: webhook creation refused for channel %s: %v",
			core.ErrDeliveryUnavailable, targetChannelID, err)
	}

	webhook := &models.Webhook{
		ID:          created.ID,
		ChannelID:   targetChannelID,
		OwnerUserID: ownerUserID,
		Token:       created.Token,
	}
	if err := s.webhooksRepo.UpsertWebhook(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to persist webhook: %w", err)
	}

	log.Printf("📋 Completed successfully - created webhook %s for owner %s", webhook.ID, ownerUserID)
	return webhook, nil
}

// webhookName identifies the relay sender per owner in the target channel's
// webhook list.
func webhookName(ownerUserID string) string {
	return fmt.Sprintf("Relay Bot (%s)", ownerUserID)
}
