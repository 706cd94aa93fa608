package connections

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"relaybot/core"
	"relaybot/models"
	"relaybot/services"
)

// ConnectionsRepository is the slice of the connections store the registry needs
type ConnectionsRepository interface {
	CreateConnection(ctx context.Context, conn *models.Connection) (bool, error)
	DeleteConnection(ctx context.Context, sourceChannelID, targetChannelID, ownerUserID string) (bool, error)
	DeleteConnectionsFromSource(ctx context.Context, sourceChannelID, ownerUserID string) (int64, error)
	WipeConnectionsTouchingGuild(ctx context.Context, guildName, ownerUserID string) (int64, error)
	GetRelayTargets(ctx context.Context, sourceChannelID, ownerUserID string) ([]*models.RelayTarget, error)
	ListConnectionDescriptors(ctx context.Context, ownerUserID string) ([]*models.ConnectionDescriptor, error)
}

// ChannelsLookup is the channel existence check the registry performs before
// accepting endpoints.
type ChannelsLookup interface {
	GetChannelByID(ctx context.Context, id string) (mo.Option[*models.Channel], error)
}

// ConnectionsService owns the source→target relay graph. Ownership scoping
// is the load-bearing invariant: every query and mutation filters by owner,
// which is what lets independent users build disjoint relay graphs over the
// same shared channel set without cross-talk.
type ConnectionsService struct {
	connectionsRepo ConnectionsRepository
	channelsLookup  ChannelsLookup
	webhooksService services.WebhooksService
}

func NewConnectionsService(
	connectionsRepo ConnectionsRepository,
	channelsLookup ChannelsLookup,
	webhooksService services.WebhooksService,
) *ConnectionsService {
	return &ConnectionsService{
		connectionsRepo: connectionsRepo,
		channelsLookup:  channelsLookup,
		webhooksService: webhooksService,
	}
}

// CreateConnection persists a new relay edge. Both endpoints must be
// previously observed channels (ErrNotFound otherwise); the delivery webhook
// is resolved before insertion and recorded on the connection. A duplicate
// (source, target, owner) triple returns ErrAlreadyExists and no second row.
func (s *ConnectionsService) CreateConnection(
	ctx context.Context,
	ownerUserID, sourceChannelID, targetChannelID string,
) (*models.Connection, error) {
	log.Printf("📋 Starting to create connection %s → %s for owner %s",
		sourceChannelID, targetChannelID, ownerUserID)

	if ownerUserID == "" {
		return nil, fmt.Errorf("owner user ID cannot be empty")
	}
	if sourceChannelID == "" || targetChannelID == "" {
		return nil, fmt.Errorf("source and target channel IDs cannot be empty")
	}

	for _, channelID := range []string{sourceChannelID, targetChannelID} {
		maybeChannel, err := s.channelsLookup.GetChannelByID(ctx, channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up channel %s: %w", channelID, err)
		}
		if !maybeChannel.IsPresent() {
			return nil, fmt.Errorf("%w: channel %s is not known to the registry",
				core.ErrNotFound, channelID)
		}
	}

	webhook, err := s.webhooksService.Resolve(ctx, ownerUserID, targetChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve delivery webhook: %w", err)
	}

	conn := &models.Connection{
		ID:              core.NewID("conn"),
		SourceChannelID: sourceChannelID,
		TargetChannelID: targetChannelID,
		OwnerUserID:     ownerUserID,
		WebhookID:       webhook.ID,
	}

	created, err := s.connectionsRepo.CreateConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	if !created {
		log.Printf("📋 Connection %s → %s already exists for owner %s",
			sourceChannelID, targetChannelID, ownerUserID)
		return nil, core.ErrAlreadyExists
	}

	log.Printf("📋 Completed successfully - created connection %s", conn.ID)
	return conn, nil
}

// DeleteConnection removes the exact (source, target, owner) triple,
// returning ErrNotFound when it never existed.
func (s *ConnectionsService) DeleteConnection(
	ctx context.Context,
	ownerUserID, sourceChannelID, targetChannelID string,
) error {
	log.Printf("📋 Starting to delete connection %s → %s for owner %s",
		sourceChannelID, targetChannelID, ownerUserID)

	deleted, err := s.connectionsRepo.DeleteConnection(ctx, sourceChannelID, targetChannelID, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: no connection %s → %s for owner %s",
			core.ErrNotFound, sourceChannelID, targetChannelID, ownerUserID)
	}

	log.Printf("📋 Completed successfully - deleted connection %s → %s", sourceChannelID, targetChannelID)
	return nil
}

// DeleteConnectionsFromSource removes every connection relaying out of the
// source for this owner. Always succeeds; the count may be zero.
func (s *ConnectionsService) DeleteConnectionsFromSource(
	ctx context.Context,
	ownerUserID, sourceChannelID string,
) (int64, error) {
	log.Printf("📋 Starting to delete all connections from %s for owner %s", sourceChannelID, ownerUserID)

	count, err := s.connectionsRepo.DeleteConnectionsFromSource(ctx, sourceChannelID, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete connections from source: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted %d connections from %s", count, sourceChannelID)
	return count, nil
}

// ListConnections groups the owner's connections by source guild name.
// Group order follows map iteration; entries within a group stay in
// retrieval order.
func (s *ConnectionsService) ListConnections(
	ctx context.Context,
	ownerUserID string,
) (map[string][]*models.ConnectionDescriptor, error) {
	log.Printf("📋 Starting to list connections for owner %s", ownerUserID)

	descriptors, err := s.connectionsRepo.ListConnectionDescriptors(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	grouped := make(map[string][]*models.ConnectionDescriptor)
	for _, d := range descriptors {
		grouped[d.SourceGuildName] = append(grouped[d.SourceGuildName], d)
	}

	log.Printf("📋 Completed successfully - listed %d connections in %d groups",
		len(descriptors), len(grouped))
	return grouped, nil
}

// GetRelayTargets is the dispatch read path. It re-reads committed state on
// every call; dispatch tolerates no staleness.
func (s *ConnectionsService) GetRelayTargets(
	ctx context.Context,
	ownerUserID, sourceChannelID string,
) ([]*models.RelayTarget, error) {
	targets, err := s.connectionsRepo.GetRelayTargets(ctx, sourceChannelID, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get relay targets: %w", err)
	}
	return targets, nil
}

// WipeConnectionsTouchingGuild removes every connection of the owner where
// either endpoint's guild matches guildName.
func (s *ConnectionsService) WipeConnectionsTouchingGuild(
	ctx context.Context,
	ownerUserID, guildName string,
) (int64, error) {
	log.Printf("📋 Starting to wipe connections touching guild %q for owner %s", guildName, ownerUserID)

	count, err := s.connectionsRepo.WipeConnectionsTouchingGuild(ctx, guildName, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe connections touching guild: %w", err)
	}

	log.Printf("📋 Completed successfully - wiped %d connections touching guild %q", count, guildName)
	return count, nil
}
