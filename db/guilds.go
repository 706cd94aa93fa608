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

type PostgresGuildsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guilds table
var guildsColumns = []string{
	"id",
	"name",
	"created_at",
	"updated_at",
}

func NewPostgresGuildsRepository(db *sqlx.DB, schema string) *PostgresGuildsRepository {
	return &PostgresGuildsRepository{db: db, schema: schema}
}

// UpsertGuild inserts a guild row or refreshes its name when the gateway
// reports it again. Replace-on-conflict, idempotent.
func (r *PostgresGuildsRepository) UpsertGuild(ctx context.Context, guild *models.Guild) error {
	columnsStr := strings.Join(guildsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.guilds (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	err := r.db.QueryRowxContext(ctx, query, guild.ID, guild.Name).StructScan(guild)
	if err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}

	return nil
}

func (r *PostgresGuildsRepository) GetGuildByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Guild], error) {
	columnsStr := strings.Join(guildsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guilds
		WHERE id = $1`, columnsStr, r.schema)

	guild := &models.Guild{}
	err := r.db.GetContext(ctx, guild, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Guild](), nil
		}
		return mo.None[*models.Guild](), fmt.Errorf("failed to get guild: %w", err)
	}

	return mo.Some(guild), nil
}

func (r *PostgresGuildsRepository) GetGuildByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Guild], error) {
	columnsStr := strings.Join(guildsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guilds
		WHERE name = $1
		ORDER BY updated_at DESC
		LIMIT 1`, columnsStr, r.schema)

	guild := &models.Guild{}
	err := r.db.GetContext(ctx, guild, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Guild](), nil
		}
		return mo.None[*models.Guild](), fmt.Errorf("failed to get guild by name: %w", err)
	}

	return mo.Some(guild), nil
}

// ListGuildNames returns the names of all known guilds, which are the
// matcher candidates for guild arguments.
func (r *PostgresGuildsRepository) ListGuildNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name
		FROM %s.guilds
		ORDER BY name`, r.schema)

	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list guild names: %w", err)
	}

	return names, nil
}
