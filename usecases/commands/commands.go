package commands

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/samber/mo"

	"relaybot/core"
	"relaybot/matcher"
	"relaybot/models"
	"relaybot/services"
)

// CommandsUseCase executes decoded relay commands against the registry and
// resolvers, and turns their outcomes into user-visible results. Free-text
// guild and channel arguments are resolved through the directory and the
// name matcher; every flow shares that one resolution path.
type CommandsUseCase struct {
	directoryService   services.DirectoryService
	connectionsService services.ConnectionsService
	mentionsService    services.MentionsService
}

func NewCommandsUseCase(
	directoryService services.DirectoryService,
	connectionsService services.ConnectionsService,
	mentionsService services.MentionsService,
) *CommandsUseCase {
	return &CommandsUseCase{
		directoryService:   directoryService,
		connectionsService: connectionsService,
		mentionsService:    mentionsService,
	}
}

// Execute runs one decoded command. Expected failures (unknown names,
// duplicates, refused webhooks) come back as unsuccessful results with a
// specific message; store failures come back as errors for the platform
// boundary to report generically.
func (u *CommandsUseCase) Execute(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	log.Printf("📋 Starting to execute %s command for user %s", cmd.Kind, cmd.OwnerUserID)

	switch cmd.Kind {
	case models.CommandConnect:
		return u.connect(ctx, cmd)
	case models.CommandDisconnect:
		return u.disconnect(ctx, cmd)
	case models.CommandDisconnectAll:
		return u.disconnectAll(ctx, cmd)
	case models.CommandList:
		return u.list(ctx, cmd)
	case models.CommandMentionAdd:
		return u.mentionAdd(ctx, cmd)
	case models.CommandMentionRemove:
		return u.mentionRemove(ctx, cmd)
	case models.CommandWipeGuild:
		return u.wipeGuild(ctx, cmd)
	default:
		return models.CommandResult{}, fmt.Errorf("unknown command kind: %s", cmd.Kind)
	}
}

func (u *CommandsUseCase) connect(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	source, result, err := u.resolveChannel(ctx, cmd.SourceGuildName, cmd.SourceChannelName)
	if source == nil {
		return result, err
	}
	target, result, err := u.resolveChannel(ctx, cmd.TargetGuildName, cmd.TargetChannelName)
	if target == nil {
		return result, err
	}

	_, err = u.connectionsService.CreateConnection(ctx, cmd.OwnerUserID, source.ID, target.ID)
	switch {
	case err == nil:
		return success("Connected %s (%s) → %s (%s)",
			source.Name, cmd.SourceGuildName, target.Name, cmd.TargetGuildName), nil
	case core.IsAlreadyExistsError(err):
		return failure("That connection already exists."), nil
	case core.IsDeliveryUnavailableError(err):
		return failure("Could not create a delivery webhook in %s. Check the bot's permissions there.",
			target.Name), nil
	case core.IsNotFoundError(err):
		return failure("One of the channels is no longer known to the bot."), nil
	default:
		return models.CommandResult{}, err
	}
}

func (u *CommandsUseCase) disconnect(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	source, result, err := u.resolveChannel(ctx, cmd.SourceGuildName, cmd.SourceChannelName)
	if source == nil {
		return result, err
	}
	target, result, err := u.resolveChannel(ctx, cmd.TargetGuildName, cmd.TargetChannelName)
	if target == nil {
		return result, err
	}

	err = u.connectionsService.DeleteConnection(ctx, cmd.OwnerUserID, source.ID, target.ID)
	switch {
	case err == nil:
		return success("Disconnected %s → %s", source.Name, target.Name), nil
	case core.IsNotFoundError(err):
		return failure("No connection %s → %s exists.", source.Name, target.Name), nil
	default:
		return models.CommandResult{}, err
	}
}

func (u *CommandsUseCase) disconnectAll(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	source, result, err := u.resolveChannel(ctx, cmd.SourceGuildName, cmd.SourceChannelName)
	if source == nil {
		return result, err
	}

	count, err := u.connectionsService.DeleteConnectionsFromSource(ctx, cmd.OwnerUserID, source.ID)
	if err != nil {
		return models.CommandResult{}, err
	}

	return success("Removed %d connection(s) from %s.", count, source.Name), nil
}

func (u *CommandsUseCase) list(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	grouped, err := u.connectionsService.ListConnections(ctx, cmd.OwnerUserID)
	if err != nil {
		return models.CommandResult{}, err
	}
	if len(grouped) == 0 {
		return success("You have no connections."), nil
	}

	guildNames := make([]string, 0, len(grouped))
	for name := range grouped {
		guildNames = append(guildNames, name)
	}
	sort.Strings(guildNames)

	var b strings.Builder
	for _, guildName := range guildNames {
		fmt.Fprintf(&b, "**%s**\n", guildName)
		for _, d := range grouped[guildName] {
			fmt.Fprintf(&b, "  %s → %s (%s)\n", d.SourceChannelName, d.TargetChannelName, d.TargetGuildName)
		}
	}

	return success("%s", strings.TrimRight(b.String(), "\n")), nil
}

func (u *CommandsUseCase) mentionAdd(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	if halfSpecifiedSource(cmd) {
		return failure("Specify both the source server and the source channel, or neither."), nil
	}

	target, result, err := u.resolveChannel(ctx, cmd.TargetGuildName, cmd.TargetChannelName)
	if target == nil {
		return result, err
	}

	source := mo.None[string]()
	scope := "all sources"
	if cmd.SourceChannelName != "" {
		sourceChannel, result, err := u.resolveChannel(ctx, cmd.SourceGuildName, cmd.SourceChannelName)
		if sourceChannel == nil {
			return result, err
		}
		source = mo.Some(sourceChannel.ID)
		scope = sourceChannel.Name
	}

	_, err = u.mentionsService.AddRule(ctx, cmd.OwnerUserID, target.ID, source, cmd.MentionText)
	switch {
	case err == nil:
		return success("Added mention %s on %s (from %s).", cmd.MentionText, target.Name, scope), nil
	case core.IsAlreadyExistsError(err):
		return failure("That mention rule already exists."), nil
	default:
		return models.CommandResult{}, err
	}
}

func (u *CommandsUseCase) mentionRemove(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	if halfSpecifiedSource(cmd) {
		return failure("Specify both the source server and the source channel, or neither."), nil
	}

	target, result, err := u.resolveChannel(ctx, cmd.TargetGuildName, cmd.TargetChannelName)
	if target == nil {
		return result, err
	}

	source := mo.None[string]()
	if cmd.SourceChannelName != "" {
		sourceChannel, result, err := u.resolveChannel(ctx, cmd.SourceGuildName, cmd.SourceChannelName)
		if sourceChannel == nil {
			return result, err
		}
		source = mo.Some(sourceChannel.ID)
	}

	text := mo.None[string]()
	if cmd.MentionText != "" {
		text = mo.Some(cmd.MentionText)
	}

	count, err := u.mentionsService.RemoveRules(ctx, cmd.OwnerUserID, target.ID, source, text)
	if err != nil {
		return models.CommandResult{}, err
	}

	return success("Removed %d mention rule(s) from %s.", count, target.Name), nil
}

func (u *CommandsUseCase) wipeGuild(ctx context.Context, cmd models.RelayCommand) (models.CommandResult, error) {
	guildName, result, err := u.resolveGuildName(ctx, cmd.GuildName)
	if guildName == "" {
		return result, err
	}

	connectionsWiped, err := u.connectionsService.WipeConnectionsTouchingGuild(ctx, cmd.OwnerUserID, guildName)
	if err != nil {
		return models.CommandResult{}, err
	}
	rulesWiped, err := u.mentionsService.WipeRulesTouchingGuild(ctx, cmd.OwnerUserID, guildName)
	if err != nil {
		return models.CommandResult{}, err
	}

	return success("Removed %d connection(s) and %d mention rule(s) touching %s.",
		connectionsWiped, rulesWiped, guildName), nil
}

// AutocompleteGuilds ranks known guild names against the typed fragment.
// An empty directory yields no choices, not an error.
func (u *CommandsUseCase) AutocompleteGuilds(ctx context.Context, partial string) ([]string, error) {
	candidates, err := u.directoryService.GuildNameCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild candidates: %w", err)
	}

	// An empty candidate list means "show nothing", not an error.
	ranked, err := matcher.Rank(partial, candidates)
	if err != nil {
		return []string{}, nil
	}
	return ranked, nil
}

// AutocompleteChannels ranks the channel names of one guild against the
// typed fragment.
func (u *CommandsUseCase) AutocompleteChannels(ctx context.Context, guildName, partial string) ([]string, error) {
	candidates, err := u.directoryService.ChannelNameCandidates(ctx, guildName)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel candidates: %w", err)
	}

	ranked, err := matcher.Rank(partial, candidates)
	if err != nil {
		return []string{}, nil
	}
	return ranked, nil
}

// resolveGuildName turns a free-text guild argument into a known guild
// name, trying an exact lookup first and the matcher's best candidate
// second. Returns an empty name plus a user-visible result when nothing
// matches.
func (u *CommandsUseCase) resolveGuildName(
	ctx context.Context,
	typed string,
) (string, models.CommandResult, error) {
	maybeGuild, err := u.directoryService.GetGuildByName(ctx, typed)
	if err != nil {
		return "", models.CommandResult{}, err
	}
	if maybeGuild.IsPresent() {
		return maybeGuild.MustGet().Name, models.CommandResult{}, nil
	}

	candidates, err := u.directoryService.GuildNameCandidates(ctx)
	if err != nil {
		return "", models.CommandResult{}, err
	}
	ranked, err := matcher.Rank(typed, candidates)
	if err != nil || len(ranked) == 0 {
		return "", failure("No server named %q found.", typed), nil
	}

	maybeGuild, err = u.directoryService.GetGuildByName(ctx, ranked[0])
	if err != nil {
		return "", models.CommandResult{}, err
	}
	if !maybeGuild.IsPresent() {
		return "", failure("No server named %q found.", typed), nil
	}

	return maybeGuild.MustGet().Name, models.CommandResult{}, nil
}

// resolveChannel turns free-text (guild, channel) arguments into a known
// channel. A missing leading "#" on the channel fragment is tolerated.
func (u *CommandsUseCase) resolveChannel(
	ctx context.Context,
	guildName, channelName string,
) (*models.Channel, models.CommandResult, error) {
	resolvedGuild, result, err := u.resolveGuildName(ctx, guildName)
	if resolvedGuild == "" {
		return nil, result, err
	}

	if !strings.HasPrefix(channelName, "#") {
		channelName = "#" + channelName
	}

	maybeChannel, err := u.directoryService.GetChannelByName(ctx, resolvedGuild, channelName)
	if err != nil {
		return nil, models.CommandResult{}, err
	}
	if maybeChannel.IsPresent() {
		return maybeChannel.MustGet(), models.CommandResult{}, nil
	}

	candidates, err := u.directoryService.ChannelNameCandidates(ctx, resolvedGuild)
	if err != nil {
		return nil, models.CommandResult{}, err
	}
	ranked, err := matcher.Rank(channelName, candidates)
	if err != nil || len(ranked) == 0 {
		return nil, failure("No channel named %s found in %s.", channelName, resolvedGuild), nil
	}

	maybeChannel, err = u.directoryService.GetChannelByName(ctx, resolvedGuild, ranked[0])
	if err != nil {
		return nil, models.CommandResult{}, err
	}
	if !maybeChannel.IsPresent() {
		return nil, failure("No channel named %s found in %s.", channelName, resolvedGuild), nil
	}

	return maybeChannel.MustGet(), models.CommandResult{}, nil
}

// halfSpecifiedSource reports whether the optional source scope of a mention
// command was given only one of its two halves. The slash definitions mark
// source-server and source-channel independently optional, so this is the
// one place the pairing is enforced.
func halfSpecifiedSource(cmd models.RelayCommand) bool {
	return (cmd.SourceGuildName == "") != (cmd.SourceChannelName == "")
}

func success(format string, args ...any) models.CommandResult {
	return models.CommandResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) models.CommandResult {
	return models.CommandResult{Success: false, Message: fmt.Sprintf(format, args...)}
}
