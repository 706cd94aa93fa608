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

type PostgresWebhooksRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for webhooks table
var webhooksColumns = []string{
	"id",
	"channel_id",
	"owner_user_id",
	"token",
	"created_at",
	"updated_at",
}

func NewPostgresWebhooksRepository(db *sqlx.DB, schema string) *PostgresWebhooksRepository {
	return &PostgresWebhooksRepository{db: db, schema: schema}
}

// GetWebhook returns the delivery handle for (owner, channel) if one was
// created before.
func (r *PostgresWebhooksRepository) GetWebhook(
	ctx context.Context,
	ownerUserID, channelID string,
) (mo.Option[*models.Webhook], error) {
	columnsStr := strings.Join(webhooksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.webhooks
		WHERE owner_user_id = $1 AND channel_id = $2`, columnsStr, r.schema)

	webhook := &models.Webhook{}
	err := r.db.GetContext(ctx, webhook, query, ownerUserID, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Webhook](), nil
		}
		return mo.None[*models.Webhook](), fmt.Errorf("failed to get webhook: %w", err)
	}

	return mo.Some(webhook), nil
}

// UpsertWebhook persists a delivery handle keyed by (owner, channel).
// Replace-on-conflict: when two resolutions race on the same key the last
// writer wins and no duplicate handle rows accumulate.
func (r *PostgresWebhooksRepository) UpsertWebhook(ctx context.Context, webhook *models.Webhook) error {
	columnsStr := strings.Join(webhooksColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.webhooks (%s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (owner_user_id, channel_id)
		DO UPDATE SET
			id = EXCLUDED.id,
			token = EXCLUDED.token,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := r.db.QueryRowxContext(ctx, query,
		webhook.ID,
		webhook.ChannelID,
		webhook.OwnerUserID,
		webhook.Token).
		StructScan(webhook)
	if err != nil {
		return fmt.Errorf("failed to upsert webhook: %w", err)
	}

	return nil
}
