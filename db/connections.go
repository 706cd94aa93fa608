package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"relaybot/models"
)

type PostgresConnectionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for connections table
var connectionsColumns = []string{
	"id",
	"source_channel_id",
	"target_channel_id",
	"owner_user_id",
	"webhook_id",
	"created_at",
	"updated_at",
}

func NewPostgresConnectionsRepository(db *sqlx.DB, schema string) *PostgresConnectionsRepository {
	return &PostgresConnectionsRepository{db: db, schema: schema}
}

// CreateConnection inserts a connection row. Uniqueness on
// (source, target, owner) is enforced by the store constraint, not by an
// application-level existence check, so a concurrent identical request can
// never produce a second row. Returns false when the triple already exists.
func (r *PostgresConnectionsRepository) CreateConnection(
	ctx context.Context,
	conn *models.Connection,
) (bool, error) {
	columnsStr := strings.Join(connectionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.connections (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (source_channel_id, target_channel_id, owner_user_id)
		DO NOTHING`, r.schema, columnsStr)

	result, err := r.db.ExecContext(ctx, query,
		conn.ID,
		conn.SourceChannelID,
		conn.TargetChannelID,
		conn.OwnerUserID,
		conn.WebhookID)
	if err != nil {
		return false, fmt.Errorf("failed to create connection: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read create connection result: %w", err)
	}

	return inserted > 0, nil
}

// DeleteConnection removes the exact (source, target, owner) triple.
// Returns false when no such connection existed.
func (r *PostgresConnectionsRepository) DeleteConnection(
	ctx context.Context,
	sourceChannelID, targetChannelID, ownerUserID string,
) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.connections
		WHERE source_channel_id = $1 AND target_channel_id = $2 AND owner_user_id = $3`,
		r.schema)

	result, err := r.db.ExecContext(ctx, query, sourceChannelID, targetChannelID, ownerUserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete connection result: %w", err)
	}

	return deleted > 0, nil
}

// DeleteConnectionsFromSource removes every connection of the owner that
// relays out of the given source channel. The count may be zero.
func (r *PostgresConnectionsRepository) DeleteConnectionsFromSource(
	ctx context.Context,
	sourceChannelID, ownerUserID string,
) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.connections
		WHERE source_channel_id = $1 AND owner_user_id = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, sourceChannelID, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete connections from source: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read bulk delete result: %w", err)
	}

	return deleted, nil
}

// WipeConnectionsTouchingGuild removes every connection of the owner where
// either endpoint belongs to the named guild. OR semantics: a connection
// with its source in the guild is removed even when its target is elsewhere,
// and vice versa.
func (r *PostgresConnectionsRepository) WipeConnectionsTouchingGuild(
	ctx context.Context,
	guildName, ownerUserID string,
) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.connections c
		WHERE c.owner_user_id = $1
		  AND (
			c.source_channel_id IN (
				SELECT ch.id FROM %s.channels ch
				JOIN %s.guilds g ON ch.guild_id = g.id
				WHERE g.name = $2
			)
			OR c.target_channel_id IN (
				SELECT ch.id FROM %s.channels ch
				JOIN %s.guilds g ON ch.guild_id = g.id
				WHERE g.name = $2
			)
		  )`, r.schema, r.schema, r.schema, r.schema, r.schema)

	result, err := r.db.ExecContext(ctx, query, ownerUserID, guildName)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe connections touching guild: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read wipe result: %w", err)
	}

	return deleted, nil
}

// GetRelayTargets returns the dispatch read model for one inbound message:
// every target of (source, owner) joined with its delivery webhook. The join
// keys on the webhook's (owner, channel) identity rather than the id the
// connection was created with, so a webhook recreated after platform-side
// deletion is picked up on the next dispatch. Reads the latest committed
// state on every call; the dispatcher never caches this.
func (r *PostgresConnectionsRepository) GetRelayTargets(
	ctx context.Context,
	sourceChannelID, ownerUserID string,
) ([]*models.RelayTarget, error) {
	query := fmt.Sprintf(`
		SELECT c.target_channel_id, w.id AS webhook_id, w.token AS webhook_token
		FROM %s.connections c
		JOIN %s.webhooks w
		  ON w.owner_user_id = c.owner_user_id AND w.channel_id = c.target_channel_id
		WHERE c.source_channel_id = $1 AND c.owner_user_id = $2`,
		r.schema, r.schema)

	targets := []*models.RelayTarget{}
	if err := r.db.SelectContext(ctx, &targets, query, sourceChannelID, ownerUserID); err != nil {
		return nil, fmt.Errorf("failed to get relay targets: %w", err)
	}

	return targets, nil
}

// ListConnectionDescriptors returns every connection of the owner joined
// with channel and guild display names, ordered by source guild so the
// service can group them.
func (r *PostgresConnectionsRepository) ListConnectionDescriptors(
	ctx context.Context,
	ownerUserID string,
) ([]*models.ConnectionDescriptor, error) {
	query := fmt.Sprintf(`
		SELECT
			sc.name AS source_channel_name,
			sg.name AS source_guild_name,
			tc.name AS target_channel_name,
			tg.name AS target_guild_name
		FROM %s.connections c
		JOIN %s.channels sc ON sc.id = c.source_channel_id
		JOIN %s.guilds sg ON sg.id = sc.guild_id
		JOIN %s.channels tc ON tc.id = c.target_channel_id
		JOIN %s.guilds tg ON tg.id = tc.guild_id
		WHERE c.owner_user_id = $1
		ORDER BY sg.name, c.created_at`,
		r.schema, r.schema, r.schema, r.schema, r.schema)

	descriptors := []*models.ConnectionDescriptor{}
	if err := r.db.SelectContext(ctx, &descriptors, query, ownerUserID); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return descriptors, nil
}
