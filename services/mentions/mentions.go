package mentions

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"relaybot/core"
	"relaybot/models"
)

// MentionRulesRepository is the slice of the mention rules store the
// resolver needs
type MentionRulesRepository interface {
	CreateMentionRule(ctx context.Context, rule *models.MentionRule) (bool, error)
	GetMentionTexts(ctx context.Context, ownerUserID, targetChannelID, sourceChannelID string) ([]string, error)
	DeleteMentionRules(
		ctx context.Context,
		ownerUserID, targetChannelID string,
		sourceChannelID mo.Option[string],
		mentionText mo.Option[string],
	) (int64, error)
	WipeMentionRulesTouchingGuild(ctx context.Context, guildName, ownerUserID string) (int64, error)
}

// MentionsService resolves the mention overlay for relayed messages. A rule
// without a source restriction is deliberate: it lets an owner broadcast a
// mention on every message relayed into a target, while source-specific
// rules coexist. Both fire; overlap is deduplicated, not merged.
type MentionsService struct {
	mentionRulesRepo MentionRulesRepository
}

func NewMentionsService(mentionRulesRepo MentionRulesRepository) *MentionsService {
	return &MentionsService{mentionRulesRepo: mentionRulesRepo}
}

// RulesFor returns the ordered, deduplicated mention texts that apply when
// a message relays from source into target for the owner: wildcard rules
// plus rules scoped to that source, sorted case-sensitively.
func (s *MentionsService) RulesFor(
	ctx context.Context,
	ownerUserID, targetChannelID, sourceChannelID string,
) ([]string, error) {
	if ownerUserID == "" || targetChannelID == "" || sourceChannelID == "" {
		return nil, fmt.Errorf("owner, target and source must be set")
	}

	texts, err := s.mentionRulesRepo.GetMentionTexts(ctx, ownerUserID, targetChannelID, sourceChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mention rules: %w", err)
	}

	return texts, nil
}

// AddRule creates a mention rule. An absent source makes the rule a
// wildcard; the wildcard and a source-specific rule with the same text are
// independent tuples. A duplicate tuple returns ErrAlreadyExists.
func (s *MentionsService) AddRule(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText string,
) (*models.MentionRule, error) {
	log.Printf("📋 Starting to add mention rule %q on target %s for owner %s",
		mentionText, targetChannelID, ownerUserID)

	if ownerUserID == "" || targetChannelID == "" {
		return nil, fmt.Errorf("owner and target must be set")
	}
	if mentionText == "" {
		return nil, fmt.Errorf("mention text cannot be empty")
	}

	rule := &models.MentionRule{
		ID:              core.NewID("mr"),
		TargetChannelID: targetChannelID,
		MentionText:     mentionText,
		OwnerUserID:     ownerUserID,
	}
	if source, ok := sourceChannelID.Get(); ok {
		rule.SourceChannelID = &source
	}

	created, err := s.mentionRulesRepo.CreateMentionRule(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to add mention rule: %w", err)
	}
	if !created {
		log.Printf("📋 Mention rule %q on target %s already exists", mentionText, targetChannelID)
		return nil, core.ErrAlreadyExists
	}

	log.Printf("📋 Completed successfully - added mention rule %s", rule.ID)
	return rule, nil
}

// RemoveRules deletes rules for (owner, target), optionally narrowed by
// source scope and/or mention text. With neither filter set, every mention
// on the target is removed. Returns the number of rules deleted.
func (s *MentionsService) RemoveRules(
	ctx context.Context,
	ownerUserID, targetChannelID string,
	sourceChannelID mo.Option[string],
	mentionText mo.Option[string],
) (int64, error) {
	log.Printf("📋 Starting to remove mention rules on target %s for owner %s", targetChannelID, ownerUserID)

	if ownerUserID == "" || targetChannelID == "" {
		return 0, fmt.Errorf("owner and target must be set")
	}

	count, err := s.mentionRulesRepo.DeleteMentionRules(ctx, ownerUserID, targetChannelID, sourceChannelID, mentionText)
	if err != nil {
		return 0, fmt.Errorf("failed to remove mention rules: %w", err)
	}

	log.Printf("📋 Completed successfully - removed %d mention rules from target %s", count, targetChannelID)
	return count, nil
}

// WipeRulesTouchingGuild removes every rule of the owner whose target, or
// non-wildcard source, lives in the named guild.
func (s *MentionsService) WipeRulesTouchingGuild(
	ctx context.Context,
	ownerUserID, guildName string,
) (int64, error) {
	log.Printf("📋 Starting to wipe mention rules touching guild %q for owner %s", guildName, ownerUserID)

	count, err := s.mentionRulesRepo.WipeMentionRulesTouchingGuild(ctx, guildName, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe mention rules touching guild: %w", err)
	}

	log.Printf("📋 Completed successfully - wiped %d mention rules touching guild %q", count, guildName)
	return count, nil
}
