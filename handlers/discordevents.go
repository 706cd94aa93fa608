package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"relaybot/models"
	"relaybot/services"
	"relaybot/usecases/commands"
	"relaybot/usecases/relay"
)

// Slash command and option names as registered with Discord.
const (
	cmdConnect       = "connect"
	cmdDisconnect    = "disconnect"
	cmdDisconnectAll = "disconnect-all"
	cmdConnections   = "connections"
	cmdMentionAdd    = "mention-add"
	cmdMentionRemove = "mention-remove"
	cmdWipe          = "wipe"

	optSourceServer  = "source-server"
	optSourceChannel = "source-channel"
	optTargetServer  = "target-server"
	optTargetChannel = "target-channel"
	optMention       = "mention"
	optServer        = "server"
)

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	directoryService services.DirectoryService
	relayUseCase     *relay.RelayUseCase
	commandsUseCase  *commands.CommandsUseCase
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	directoryService services.DirectoryService,
	relayUseCase *relay.RelayUseCase,
	commandsUseCase *commands.CommandsUseCase,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		directoryService: directoryService,
		relayUseCase:     relayUseCase,
		commandsUseCase:  commandsUseCase,
	}

	// Register event handlers
	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleGuildCreatedEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Guild metadata, message events and message content are all required
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	// Open a websocket connection to Discord and begin listening
	err := h.discordSDKClient.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if err := h.registerCommands(); err != nil {
		h.discordSDKClient.Close()
		return fmt.Errorf("failed to register slash commands: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

// handleReadyEvent refreshes the directory from everything the bot can see
func (h *DiscordEventsHandler) handleReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("🤖 Discord session ready as %s", r.User.Username)

	ctx := context.Background()
	if err := h.directoryService.SyncAllGuilds(ctx); err != nil {
		log.Printf("❌ Failed to sync guild directory: %v", err)
	}
}

// handleGuildCreatedEvent syncs one guild into the directory when the bot
// joins it or when Discord replays it after a reconnect
func (h *DiscordEventsHandler) handleGuildCreatedEvent(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("📨 Guild available: %s (%s)", g.Name, g.ID)

	ctx := context.Background()
	if err := h.directoryService.SyncGuild(ctx, g.ID, g.Name); err != nil {
		log.Printf("❌ Failed to sync guild %s: %v", g.ID, err)
	}
}

// handleMessageCreatedEvent handles incoming Discord messages
func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	// Map Discord SDK event to our model
	event := mapToMessageEvent(m)

	if err := h.relayUseCase.ProcessMessageEvent(ctx, event); err != nil {
		log.Printf("❌ Failed to process Discord message: %v", err)
	}
}

// handleInteractionCreatedEvent routes slash command invocations and
// autocomplete requests
func (h *DiscordEventsHandler) handleInteractionCreatedEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleSlashCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		h.handleAutocomplete(s, i)
	}
}

func (h *DiscordEventsHandler) handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	cmd, err := decodeCommand(i)
	if err != nil {
		log.Printf("❌ Failed to decode slash command: %v", err)
		h.respond(s, i, "Something went wrong. Please try again.")
		return
	}

	result, err := h.commandsUseCase.Execute(ctx, cmd)
	if err != nil {
		log.Printf("❌ Failed to execute %s command: %v", cmd.Kind, err)
		h.respond(s, i, "Something went wrong. Please try again.")
		return
	}

	h.respond(s, i, result.Message)
}

func (h *DiscordEventsHandler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	data := i.ApplicationCommandData()

	focused := focusedOption(data.Options)
	if focused == nil {
		return
	}

	var choices []string
	var err error
	switch focused.Name {
	case optSourceServer, optTargetServer, optServer:
		choices, err = h.commandsUseCase.AutocompleteGuilds(ctx, focused.StringValue())
	case optSourceChannel:
		choices, err = h.commandsUseCase.AutocompleteChannels(
			ctx, optionValue(data.Options, optSourceServer), focused.StringValue())
	case optTargetChannel:
		choices, err = h.commandsUseCase.AutocompleteChannels(
			ctx, optionValue(data.Options, optTargetServer), focused.StringValue())
	default:
		return
	}
	if err != nil {
		log.Printf("❌ Failed to compute autocomplete choices for %s: %v", focused.Name, err)
		return
	}

	commandChoices := make([]*discordgo.ApplicationCommandOptionChoice, len(choices))
	for idx, choice := range choices {
		commandChoices[idx] = &discordgo.ApplicationCommandOptionChoice{
			Name:  choice,
			Value: choice,
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: commandChoices},
	})
	if err != nil {
		log.Printf("❌ Failed to send autocomplete choices: %v", err)
	}
}

// respond sends an ephemeral reply so command outcomes stay between the
// invoking user and the bot
func (h *DiscordEventsHandler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to respond to interaction: %v", err)
	}
}

// registerCommands overwrites the bot's global slash command set
func (h *DiscordEventsHandler) registerCommands() error {
	autocompleteString := func(name, description string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         name,
			Description:  description,
			Required:     required,
			Autocomplete: true,
		}
	}

	definitions := []*discordgo.ApplicationCommand{
		{
			Name:        cmdConnect,
			Description: "Relay messages from one channel into another",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optSourceServer, "Server the messages come from", true),
				autocompleteString(optSourceChannel, "Channel the messages come from", true),
				autocompleteString(optTargetServer, "Server the messages go to", true),
				autocompleteString(optTargetChannel, "Channel the messages go to", true),
			},
		},
		{
			Name:        cmdDisconnect,
			Description: "Stop relaying between two channels",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optSourceServer, "Server the messages come from", true),
				autocompleteString(optSourceChannel, "Channel the messages come from", true),
				autocompleteString(optTargetServer, "Server the messages go to", true),
				autocompleteString(optTargetChannel, "Channel the messages go to", true),
			},
		},
		{
			Name:        cmdDisconnectAll,
			Description: "Remove every connection out of a channel",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optSourceServer, "Server the channel is in", true),
				autocompleteString(optSourceChannel, "Channel to disconnect", true),
			},
		},
		{
			Name:        cmdConnections,
			Description: "List your relay connections",
		},
		{
			Name:        cmdMentionAdd,
			Description: "Prepend a mention to messages relayed into a channel",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optTargetServer, "Server the mention applies in", true),
				autocompleteString(optTargetChannel, "Channel the mention applies in", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optMention,
					Description: "Mention text, e.g. @everyone or <@&role>",
					Required:    true,
				},
				autocompleteString(optSourceServer, "Only for messages from this server", false),
				autocompleteString(optSourceChannel, "Only for messages from this channel", false),
			},
		},
		{
			Name:        cmdMentionRemove,
			Description: "Remove mention rules from a channel",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optTargetServer, "Server the mention applies in", true),
				autocompleteString(optTargetChannel, "Channel the mention applies in", true),
				autocompleteString(optSourceServer, "Only rules scoped to this server", false),
				autocompleteString(optSourceChannel, "Only rules scoped to this channel", false),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optMention,
					Description: "Only rules with this exact mention text",
					Required:    false,
				},
			},
		},
		{
			Name:        cmdWipe,
			Description: "Remove every connection and mention rule touching a server",
			Options: []*discordgo.ApplicationCommandOption{
				autocompleteString(optServer, "Server to wipe", true),
			},
		},
	}

	_, err := h.discordSDKClient.ApplicationCommandBulkOverwrite(
		h.discordSDKClient.State.User.ID, "", definitions)
	if err != nil {
		return fmt.Errorf("failed to overwrite application commands: %w", err)
	}

	log.Printf("✅ Registered %d slash commands", len(definitions))
	return nil
}

// mapToMessageEvent maps a Discord SDK message event to our domain model.
// Webhook-authored messages count as bot-authored; that is what breaks
// relay loops between connected channels.
func mapToMessageEvent(m *discordgo.MessageCreate) models.MessageEvent {
	bot := m.WebhookID != ""
	if m.Author != nil {
		bot = bot || m.Author.Bot
	}

	var userID string
	if m.Author != nil {
		userID = m.Author.ID
	}

	return models.MessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		UserID:    userID,
		Content:   m.Content,
		Bot:       bot,
	}
}

// decodeCommand turns an application command interaction into a relay command
func decodeCommand(i *discordgo.InteractionCreate) (models.RelayCommand, error) {
	data := i.ApplicationCommandData()

	ownerUserID := ""
	if i.Member != nil && i.Member.User != nil {
		ownerUserID = i.Member.User.ID
	} else if i.User != nil {
		ownerUserID = i.User.ID
	}
	if ownerUserID == "" {
		return models.RelayCommand{}, fmt.Errorf("interaction has no invoking user")
	}

	cmd := models.RelayCommand{
		OwnerUserID:       ownerUserID,
		SourceGuildName:   optionValue(data.Options, optSourceServer),
		SourceChannelName: optionValue(data.Options, optSourceChannel),
		TargetGuildName:   optionValue(data.Options, optTargetServer),
		TargetChannelName: optionValue(data.Options, optTargetChannel),
		MentionText:       optionValue(data.Options, optMention),
		GuildName:         optionValue(data.Options, optServer),
	}

	switch data.Name {
	case cmdConnect:
		cmd.Kind = models.CommandConnect
	case cmdDisconnect:
		cmd.Kind = models.CommandDisconnect
	case cmdDisconnectAll:
		cmd.Kind = models.CommandDisconnectAll
	case cmdConnections:
		cmd.Kind = models.CommandList
	case cmdMentionAdd:
		cmd.Kind = models.CommandMentionAdd
	case cmdMentionRemove:
		cmd.Kind = models.CommandMentionRemove
	case cmdWipe:
		cmd.Kind = models.CommandWipeGuild
	default:
		return models.RelayCommand{}, fmt.Errorf("unknown slash command: %s", data.Name)
	}

	return cmd, nil
}

func optionValue(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, option := range options {
		if option.Name == name {
			return option.StringValue()
		}
	}
	return ""
}

func focusedOption(
	options []*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.ApplicationCommandInteractionDataOption {
	for _, option := range options {
		if option.Focused {
			return option
		}
	}
	return nil
}
