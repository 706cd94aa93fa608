package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"relaybot/models"
)

type PostgresChannelsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for channels table
var channelsColumns = []string{
	"id",
	"name",
	"guild_id",
	"webhook_id",
	"created_at",
	"updated_at",
}

func NewPostgresChannelsRepository(db *sqlx.DB, schema string) *PostgresChannelsRepository {
	return &PostgresChannelsRepository{db: db, schema: schema}
}

// UpsertChannel inserts or refreshes a channel row. The per-channel
// webhook_id is preserved across upserts; only name and guild move.
func (r *PostgresChannelsRepository) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	columnsStr := strings.Join(channelsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.channels (id, name, guild_id, webhook_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			guild_id = EXCLUDED.guild_id,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	err := r.db.QueryRowxContext(ctx, query,
		channel.ID,
		channel.Name,
		channel.GuildID,
		channel.WebhookID).
		StructScan(channel)
	if err != nil {
		return fmt.Errorf("failed to upsert channel: %w", err)
	}

	return nil
}

func (r *PostgresChannelsRepository) GetChannelByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Channel], error) {
	columnsStr := strings.Join(channelsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channels
		WHERE id = $1`, columnsStr, r.schema)

	channel := &models.Channel{}
	err := r.db.GetContext(ctx, channel, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Channel](), nil
		}
		return mo.None[*models.Channel](), fmt.Errorf("failed to get channel: %w", err)
	}

	return mo.Some(channel), nil
}

// GetChannelByName looks up a channel by its display name (with the leading
// "#") within one guild.
func (r *PostgresChannelsRepository) GetChannelByName(
	ctx context.Context,
	guildID string,
	name string,
) (mo.Option[*models.Channel], error) {
	columnsStr := strings.Join(channelsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channels
		WHERE guild_id = $1 AND name = $2
		ORDER BY updated_at DESC
		LIMIT 1`, columnsStr, r.schema)

	channel := &models.Channel{}
	err := r.db.GetContext(ctx, channel, query, guildID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Channel](), nil
		}
		return mo.None[*models.Channel](), fmt.Errorf("failed to get channel by name: %w", err)
	}

	return mo.Some(channel), nil
}

// ListChannelNames returns the display names of all channels in a guild,
// which are the matcher candidates for channel arguments.
func (r *PostgresChannelsRepository) ListChannelNames(
	ctx context.Context,
	guildID string,
) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name
		FROM %s.channels
		WHERE guild_id = $1
		ORDER BY name`, r.schema)

	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list channel names: %w", err)
	}

	return names, nil
}
