package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"relaybot/models"
)

type PostgresMentionRulesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for mention_rules table
var mentionRulesColumns = []string{
	"id",
	"source_channel_id",
	"target_channel_id",
	"mention_text",
	"owner_user_id",
	"created_at",
	"updated_at",
}

func NewPostgresMentionRulesRepository(db *sqlx.DB, schema string) *PostgresMentionRulesRepository {
	return &PostgresMentionRulesRepository{db: db, schema: schema}
}

// CreateMentionRule inserts a rule row. A NULL source is a wildcard rule and
// is a distinct tuple from any source-specific rule carrying the same text;
// the store's partial unique indexes reject exact duplicates of either kind.
// Returns false when the tuple already exists.
func (r *PostgresMentionRulesRepository) CreateMentionRule(
	ctx context.Context,
	rule *models.MentionRule,
) (bool, error) {
	columnsStr := strings.Join(mentionRulesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.mention_rules (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT DO NOTHING`, r.schema, columnsStr)

	result, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.SourceChannelID,
		rule.TargetChannelID,
		rule.MentionText,
		rule.OwnerUserID)
	if err != nil {
		return false, fmt.Errorf("failed to create mention rule: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read create mention rule result: %w", err)
	}

	return inserted > 0, nil
}

// GetMentionTexts returns the deduplicated, sorted mention texts that apply
// when a message relays from source into target for the owner: wildcard
// rules plus rules scoped to exactly that source.
func (r *PostgresMentionRulesRepository) GetMentionTexts(
	ctx context.Context,
	ownerUserID, targetChannelID, sourceChannelID string,
) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT mention_text
		FROM %s.mention_rules
		WHERE owner_user_id = $1
		  AND target_channel_id = $2
		  AND (source_channel_id IS NULL OR source_channel_id = $3)
		ORDER BY mention_text`, r.schema)

	texts := []string{}
	if err := r.db.SelectContext(ctx, &texts, query, ownerUserID, targetChannelID, sourceChannelID); err != nil {
		return nil, fmt.Errorf("failed to get mention texts: %w", err)
	}

	return texts, nil
}

// DeleteMentionRules removes rules for (owner, target), optionally narrowed
// to a source scope and/or one mention text. An absent source matches rules
// of every scope, wildcard included; a present source matches only rules
// scoped to that exact channel.
func (r *PostgresMentionRulesRepository) DeleteMentionRules(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText mo.Option[string],
) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.mention_rules
		WHERE owner_user_id = $1 AND target_channel_id = $2`, r.schema)
	args := []any{ownerUserID, targetChannelID}

	if source, ok := sourceChannelID.Get(); ok {
		args = append(args, source)
		query += fmt.Sprintf(" AND source_channel_id = $%d", len(args))
	}
	if text, ok := mentionText.Get(); ok {
		args = append(args, text)
		query += fmt.Sprintf(" AND mention_text = $%d", len(args))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete mention rules: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete mention rules result: %w", err)
	}

	return deleted, nil
}

// WipeMentionRulesTouchingGuild removes every rule of the owner where the
// target channel, or a non-wildcard source channel, belongs to the named
// guild. Same OR semantics as the connection wipe.
func (r *PostgresMentionRulesRepository) WipeMentionRulesTouchingGuild(
	ctx context.Context,
	guildName, ownerUserID string,
) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.mention_rules m
		WHERE m.owner_user_id = $1
		  AND (
			m.target_channel_id IN (
				SELECT ch.id FROM %s.channels ch
				JOIN %s.guilds g ON ch.guild_id = g.id
				WHERE g.name = $2
			)
			OR m.source_channel_id IN (
				SELECT ch.id FROM %s.channels ch
				JOIN %s.guilds g ON ch.guild_id = g.id
				WHERE g.name = $2
			)
		  )`, r.schema, r.schema, r.schema, r.schema, r.schema)

	result, err := r.db.ExecContext(ctx, query, ownerUserID, guildName)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe mention rules touching guild: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read wipe mention rules result: %w", err)
	}

	return deleted, nil
}
