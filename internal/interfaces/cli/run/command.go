// Package run implements the command that starts the bridge.
package run

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	panelUsecases "ticketbridge/internal/application/panel/usecases"
	registryUsecases "ticketbridge/internal/application/registry/usecases"
	ticketUsecases "ticketbridge/internal/application/ticket/usecases"
	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/infrastructure/archive"
	"ticketbridge/internal/infrastructure/config"
	"ticketbridge/internal/infrastructure/discord"
	"ticketbridge/internal/infrastructure/persistence"
	"ticketbridge/internal/infrastructure/scheduler"
	"ticketbridge/internal/infrastructure/telegram"
	httpRouter "ticketbridge/internal/interfaces/http"
	"ticketbridge/internal/interfaces/http/handlers"
	"ticketbridge/internal/shared/logger"
	"ticketbridge/internal/shared/services/markdown"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the ticket bridge",
		Long:  `Start the ticket bridge: the interaction webhook server, the notification bot and the digest scheduler.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "default", "Environment (debug, release)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting ticket bridge", "environment", env, "address", cfg.Server.GetAddr())

	gin.DefaultWriter = io.Discard

	// Stores.
	templateStore, err := persistence.NewJSONStore(cfg.Storage.Dir, "templates.json")
	if err != nil {
		return err
	}
	bindingStore, err := persistence.NewJSONStore(cfg.Storage.Dir, "bindings.json")
	if err != nil {
		return err
	}
	rolesStore, err := persistence.NewJSONStore(cfg.Storage.Dir, "roles.json")
	if err != nil {
		return err
	}
	linksStore, err := persistence.NewJSONStore(cfg.Storage.Dir, "links.json")
	if err != nil {
		return err
	}

	templateRepo, err := persistence.NewTemplateRepository(templateStore, log.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	bindingRepo, err := persistence.NewBindingRepository(bindingStore, log.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to load bindings: %w", err)
	}
	registryRepo := persistence.NewRegistryRepository(rolesStore, linksStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := registry.NewRegistry()
	if err := registryRepo.Load(ctx, reg); err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	// Platform adapters.
	discordClient := discord.NewClient(cfg.Discord)
	platform := discord.NewAdapter(discordClient, cfg.Discord, log.Named("discord"))

	bot := telegram.NewBotService(cfg.Telegram)
	notifier := telegram.NewNotifier(bot)
	collector := archive.NewTranscriptCollector(platform, log.Named("archive"))
	markdownService := markdown.NewMarkdownService()

	// Use cases.
	adminChats := cfg.Telegram.AdminChatIDs
	createTicket := ticketUsecases.NewCreateTicketUseCase(
		bindingRepo, templateRepo, reg, platform, notifier, adminChats, log.Named("ticket"))
	closeTicket := ticketUsecases.NewCloseTicketUseCase(
		bindingRepo, reg, platform, notifier, collector, adminChats, log.Named("ticket"))
	refreshDigest := ticketUsecases.NewRefreshDigestUseCase(
		bindingRepo, reg, platform, notifier, adminChats, log.Named("digest"))

	panels := telegram.PanelUseCases{
		Save:    panelUsecases.NewSaveTemplateUseCase(templateRepo, log.Named("panel")),
		Publish: panelUsecases.NewPublishPanelUseCase(templateRepo, platform, log.Named("panel")),
		Edit:    panelUsecases.NewEditTemplateFieldUseCase(templateRepo, platform, log.Named("panel")),
		Show:    panelUsecases.NewShowTemplateUseCase(templateRepo),
		List:    panelUsecases.NewListTemplatesUseCase(templateRepo),
		Delete:  panelUsecases.NewDeleteTemplateUseCase(templateRepo, log.Named("panel")),
		Adhoc:   panelUsecases.NewSendAdhocPanelUseCase(platform, log.Named("panel")),
	}
	ticketUC := telegram.TicketUseCases{
		List:  ticketUsecases.NewListTicketsUseCase(bindingRepo),
		Relay: ticketUsecases.NewRelayReplyUseCase(bindingRepo, platform, log.Named("ticket")),
	}
	registryUC := telegram.RegistryUseCases{
		Link:   registryUsecases.NewLinkUserUseCase(reg, registryRepo, log.Named("registry")),
		Assign: registryUsecases.NewAssignRoleUseCase(reg, registryRepo, log.Named("registry")),
	}

	// Notification side.
	commandHandler := telegram.NewCommandHandler(
		cfg.Telegram, bot, panels, registryUC, ticketUC, markdownService, log.Named("telegram"))
	polling := telegram.NewPollingService(bot, commandHandler, log.Named("telegram"), cfg.Telegram.PollTimeout)

	if err := bot.SetMyCommands(botCommands()); err != nil {
		log.Warnw("failed to register bot commands", "error", err)
	}
	if err := polling.Start(ctx); err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	defer polling.Stop()

	digestScheduler := scheduler.NewDigestScheduler(
		bindingRepo, platform, refreshDigest, cfg.Digest.RefreshIntervalSeconds, log.Named("scheduler"))
	digestScheduler.Start(ctx)
	defer digestScheduler.Stop()

	// Interaction webhook.
	verifier, err := discord.NewSignatureVerifier(cfg.Discord.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid discord public key: %w", err)
	}
	interactionHandler := handlers.NewInteractionHandler(
		verifier, createTicket, closeTicket, templateRepo, log.Named("http"))
	router := httpRouter.NewRouter(&cfg.Server, interactionHandler, log.Named("http"))

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infow("webhook server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("webhook server failed: %w", err)
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("webhook server shutdown failed", "error", err)
	}

	return nil
}

func botCommands() []telegram.BotCommand {
	return []telegram.BotCommand{
		{Command: "start", Description: "Show what this bot does"},
		{Command: "help", Description: "List available commands"},
		{Command: "link", Description: "Link your platform account: /link <user id>"},
		{Command: "unlink", Description: "Remove your account link"},
		{Command: "panel", Description: "Send a ticket panel"},
		{Command: "post", Description: "Send a one-off post"},
		{Command: "post_save", Description: "Save a panel template"},
		{Command: "post_send", Description: "Publish a saved template"},
		{Command: "post_edit", Description: "Edit a saved template"},
		{Command: "post_show", Description: "Preview a template"},
		{Command: "post_list", Description: "List templates"},
		{Command: "post_delete", Description: "Delete a template"},
		{Command: "tickets", Description: "List open tickets"},
		{Command: "role", Description: "Assign a fan-out role"},
	}
}
