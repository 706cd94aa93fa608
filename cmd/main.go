package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "relaybot/clients/discord"
	"relaybot/config"
	"relaybot/db"
	"relaybot/handlers"
	"relaybot/opsnotif"
	"relaybot/services/connections"
	"relaybot/services/directory"
	"relaybot/services/mentions"
	"relaybot/services/webhooks"
	"relaybot/usecases/commands"
	"relaybot/usecases/relay"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize operator notifications for delivery failures
	opsnotif.Init(cfg.OpsConfig.WebhookURL, cfg.Environment)

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	guildsRepo := db.NewPostgresGuildsRepository(dbConn, cfg.DatabaseSchema)
	channelsRepo := db.NewPostgresChannelsRepository(dbConn, cfg.DatabaseSchema)
	connectionsRepo := db.NewPostgresConnectionsRepository(dbConn, cfg.DatabaseSchema)
	mentionRulesRepo := db.NewPostgresMentionRulesRepository(dbConn, cfg.DatabaseSchema)
	webhooksRepo := db.NewPostgresWebhooksRepository(dbConn, cfg.DatabaseSchema)

	// One discordgo session backs both the gateway handler and REST calls
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discordclient.NewDiscordClient(session)

	directoryService := directory.NewDirectoryService(guildsRepo, channelsRepo, discordClient)
	webhooksService := webhooks.NewWebhooksService(webhooksRepo, discordClient)
	connectionsService := connections.NewConnectionsService(connectionsRepo, channelsRepo, webhooksService)
	mentionsService := mentions.NewMentionsService(mentionRulesRepo)

	relayUseCase := relay.NewRelayUseCase(discordClient, connectionsService, mentionsService)
	commandsUseCase := commands.NewCommandsUseCase(directoryService, connectionsService, mentionsService)

	discordHandler := handlers.NewDiscordEventsHandler(session, directoryService, relayUseCase, commandsUseCase)
	if err := discordHandler.StartBot(); err != nil {
		return err
	}
	defer discordHandler.StopBot()

	botUser, err := discordClient.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to verify bot identity: %w", err)
	}
	log.Printf("✅ Running as %s (%s)", botUser.Username, botUser.ID)

	// Create a new router
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Status endpoint with a bit more context for operators
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		body := fmt.Sprintf(`{"status":"ok","environment":%q}`, cfg.Environment)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Printf("❌ Failed to write status response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
