package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"

	"relaybot/clients"
	"relaybot/models"
	"relaybot/opsnotif"
	"relaybot/services"
)

// maxDeliveryRetries bounds the retry loop on one webhook execution before
// the target is given up for this message.
const maxDeliveryRetries = 2

// RelayUseCase turns one inbound message event into zero or more webhook
// deliveries. Each target is an independent unit of work: a failed delivery
// is logged and reported to operators, never surfaced to the message author
// and never allowed to abort sibling deliveries.
type RelayUseCase struct {
	discordClient      clients.DiscordClient
	connectionsService services.ConnectionsService
	mentionsService    services.MentionsService
}

func NewRelayUseCase(
	discordClient clients.DiscordClient,
	connectionsService services.ConnectionsService,
	mentionsService services.MentionsService,
) *RelayUseCase {
	return &RelayUseCase{
		discordClient:      discordClient,
		connectionsService: connectionsService,
		mentionsService:    mentionsService,
	}
}

// ProcessMessageEvent relays the message to every target connected to
// (source channel, author). Bot-authored messages are dropped to prevent
// relay loops. Store errors encountered while resolving overlays are
// collected and returned after every target has been attempted; delivery
// failures are not part of the returned error.
func (u *RelayUseCase) ProcessMessageEvent(ctx context.Context, event models.MessageEvent) error {
	if event.Bot {
		return nil
	}

	targets, err := u.connectionsService.GetRelayTargets(ctx, event.UserID, event.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to look up relay targets: %w", err)
	}
	if len(targets) == 0 {
		return nil
	}

	log.Printf("📨 Relaying message %s from channel %s to %d targets",
		event.MessageID, event.ChannelID, len(targets))

	var storeErrs []error
	for _, target := range targets {
		mentionTexts, err := u.mentionsService.RulesFor(ctx, event.UserID, target.TargetChannelID, event.ChannelID)
		if err != nil {
			log.Printf("❌ Failed to resolve mention overlay for target %s: %v", target.TargetChannelID, err)
			storeErrs = append(storeErrs, err)
			continue
		}

		content := composeContent(event.Content, mentionTexts)
		if err := u.deliver(ctx, target, content); err != nil {
			log.Printf("❌ Delivery to channel %s failed: %v", target.TargetChannelID, err)
			opsnotif.DeliveryFailed(event.UserID, target.TargetChannelID, err)
			continue
		}

		log.Printf("✅ Delivered message %s to channel %s", event.MessageID, target.TargetChannelID)
	}

	return errors.Join(storeErrs...)
}

// deliver executes one target's webhook, retrying transient transport
// failures with bounded exponential backoff. Permanent platform refusals
// (deleted webhook, missing permissions) fail the attempt immediately.
func (u *RelayUseCase) deliver(ctx context.Context, target *models.RelayTarget, content string) error {
	operation := func() error {
		err := u.discordClient.ExecuteWebhook(target.WebhookID, target.WebhookToken, content)
		if err != nil && !isTransientDeliveryError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxDeliveryRetries),
		ctx,
	)

	return backoff.Retry(operation, policy)
}

// isTransientDeliveryError reports whether a delivery failure is worth
// retrying. A 4xx platform response other than a rate limit will not change
// between attempts; anything else (network failure, 5xx) might.
func isTransientDeliveryError(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return true
	}

	code := restErr.Response.StatusCode
	if code == http.StatusTooManyRequests {
		return true
	}
	return code < 400 || code >= 500
}

// composeContent prepends the joined overlay mentions to the source content.
// The source content itself is never mutated; every target composes from
// the same original.
func composeContent(content string, mentionTexts []string) string {
	if len(mentionTexts) == 0 {
		return content
	}
	return strings.Join(mentionTexts, " ") + "\n" + content
}
