package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	panelusecases "ticketbridge/internal/application/panel/usecases"
	registryusecases "ticketbridge/internal/application/registry/usecases"
	ticketusecases "ticketbridge/internal/application/ticket/usecases"
	"ticketbridge/internal/shared/config"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
	"ticketbridge/internal/shared/services/markdown"
)

const helpText = `Available commands:
/panel <channel_id> <title|description|image_url> - send a ticket panel
/post <channel_id> <title|description|color_hex|image_url> - send a one-off post
/post_save <name> <json> - save a panel template
/post_send <name> [channel_id] - publish a panel
/post_edit <name> <field> <value> - edit a template field
/post_show <name> - preview a template
/post_list - list templates
/post_delete <name> - delete a template
/tickets - list open tickets
/role <user_id> <role> [chat_id] - assign a fan-out role
/link <user_id> - receive that user's ticket notifications in this chat
/unlink <user_id> - stop receiving that user's ticket notifications
/help - this message

Reply to a ticket digest to post your message into the ticket channel.`

// PanelUseCases bundles the template management entry points the command
// handler drives.
type PanelUseCases struct {
	Save    *panelusecases.SaveTemplateUseCase
	Publish *panelusecases.PublishPanelUseCase
	Edit    *panelusecases.EditTemplateFieldUseCase
	Show    *panelusecases.ShowTemplateUseCase
	List    *panelusecases.ListTemplatesUseCase
	Delete  *panelusecases.DeleteTemplateUseCase
	Adhoc   *panelusecases.SendAdhocPanelUseCase
}

// RegistryUseCases bundles the link and role entry points.
type RegistryUseCases struct {
	Link   *registryusecases.LinkUserUseCase
	Assign *registryusecases.AssignRoleUseCase
}

// TicketUseCases bundles the ticket entry points the command handler drives:
// the active-ticket listing and the digest reply relay.
type TicketUseCases struct {
	List  ticketusecases.ListTicketsExecutor
	Relay ticketusecases.RelayReplyExecutor
}

// CommandHandler turns Telegram updates into use case invocations. It is
// the notification side's whole control surface.
type CommandHandler struct {
	cfg      config.TelegramConfig
	bot      *BotService
	panels   PanelUseCases
	registry RegistryUseCases
	tickets  TicketUseCases
	markdown markdown.MarkdownService
	logger   logger.Interface
}

func NewCommandHandler(
	cfg config.TelegramConfig,
	bot *BotService,
	panels PanelUseCases,
	reg RegistryUseCases,
	tickets TicketUseCases,
	md markdown.MarkdownService,
	log logger.Interface,
) *CommandHandler {
	return &CommandHandler{
		cfg:      cfg,
		bot:      bot,
		panels:   panels,
		registry: reg,
		tickets:  tickets,
		markdown: md,
		logger:   log,
	}
}

var _ UpdateHandler = (*CommandHandler)(nil)

func (h *CommandHandler) HandleUpdate(ctx context.Context, update *Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		return h.handleCommand(ctx, update.Message)
	}
	if update.Message.ReplyTo != nil {
		return h.handleReply(ctx, update.Message)
	}
	return nil
}

// handleReply bridges a reply to a ticket digest back into the ticket
// channel on the primary platform. Replies to anything else are dropped
// silently.
func (h *CommandHandler) handleReply(ctx context.Context, msg *Message) error {
	if msg.Chat == nil || msg.Text == "" {
		return nil
	}

	result, err := h.tickets.Relay.Execute(ctx, ticketusecases.RelayReplyCommand{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ReplyTo.MessageID,
		Author:    senderName(msg.From),
		Text:      msg.Text,
	})
	if err != nil {
		h.logger.Errorw("failed to relay reply", "chat_id", msg.Chat.ID, "error", err)
		return err
	}
	if result.Relayed {
		h.logger.Infow("reply bridged to ticket channel",
			"chat_id", msg.Chat.ID, "channel_id", result.ChannelID)
	}
	return nil
}

func senderName(from *User) string {
	if from == nil {
		return ""
	}
	if from.Username != "" {
		return from.Username
	}
	return from.FirstName
}

// handleCallback processes rating button presses of the form
// "rate:<channelId>:<outcome>".
func (h *CommandHandler) handleCallback(ctx context.Context, query *CallbackQuery) error {
	data := query.Data
	if !strings.HasPrefix(data, "rate:") {
		return h.bot.AnswerCallbackQuery(query.ID, "")
	}

	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return h.bot.AnswerCallbackQuery(query.ID, "")
	}
	channelID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return h.bot.AnswerCallbackQuery(query.ID, "")
	}
	outcome := parts[2]

	var raterID int64
	if query.From != nil {
		raterID = query.From.ID
	}
	h.logger.Infow("ticket outcome recorded",
		"channel_id", channelID, "outcome", outcome, "rated_by", raterID)

	return h.bot.AnswerCallbackQuery(query.ID, fmt.Sprintf("Recorded: %s", outcome))
}

func (h *CommandHandler) handleCommand(ctx context.Context, msg *Message) error {
	if msg.From == nil || msg.Chat == nil {
		return nil
	}

	command, args := splitCommand(msg.Text)

	switch command {
	case "start", "help":
		return h.reply(msg, helpText)
	case "link":
		return h.handleLink(ctx, msg, args, false)
	case "unlink":
		return h.handleLink(ctx, msg, args, true)
	}

	if !h.isAdmin(msg.From.ID) {
		return h.reply(msg, "You are not allowed to use this command.")
	}

	switch command {
	case "panel":
		return h.handlePanel(ctx, msg, args)
	case "post":
		return h.handlePost(ctx, msg, args)
	case "post_save":
		return h.handlePostSave(ctx, msg, args)
	case "post_send":
		return h.handlePostSend(ctx, msg, args)
	case "post_edit":
		return h.handlePostEdit(ctx, msg, args)
	case "post_show":
		return h.handlePostShow(ctx, msg, args)
	case "post_list":
		return h.handlePostList(ctx, msg)
	case "post_delete":
		return h.handlePostDelete(ctx, msg, args)
	case "tickets":
		return h.handleTickets(ctx, msg)
	case "role":
		return h.handleRole(ctx, msg, args)
	default:
		return h.reply(msg, "Unknown command. Use /help.")
	}
}

// handleLink binds this chat to a primary-platform user id. Links are keyed
// by that id because that is what the target resolver looks up when the user
// opens a ticket; the Telegram sender's own id would never match an opener.
func (h *CommandHandler) handleLink(ctx context.Context, msg *Message, args []string, unlink bool) error {
	if len(args) < 1 {
		if unlink {
			return h.reply(msg, "Usage: /unlink <user_id>")
		}
		return h.reply(msg, "Usage: /link <user_id>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return h.reply(msg, "user_id must be numeric")
	}

	_, err = h.registry.Link.Execute(ctx, registryusecases.LinkUserCommand{
		UserID: userID,
		ChatID: msg.Chat.ID,
		Unlink: unlink,
	})
	if err != nil {
		return h.replyError(msg, err)
	}
	if unlink {
		return h.reply(msg, fmt.Sprintf("Unlinked. Ticket notifications for user %d will stop.", userID))
	}
	return h.reply(msg, fmt.Sprintf("Linked. Ticket notifications for user %d will arrive in this chat.", userID))
}

func (h *CommandHandler) handleTickets(ctx context.Context, msg *Message) error {
	summaries, err := h.tickets.List.Execute(ctx)
	if err != nil {
		return h.replyError(msg, err)
	}
	if len(summaries) == 0 {
		return h.reply(msg, "No open tickets.")
	}

	var b strings.Builder
	b.WriteString("Open tickets:\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "• %s | %s (%d) | digests=%d\n", s.Kind, s.ChannelName, s.ChannelID, s.Digests)
	}
	return h.reply(msg, b.String())
}

func (h *CommandHandler) handlePanel(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 2 {
		return h.reply(msg, "Usage: /panel <channel_id> <title|description|image_url>")
	}
	channelID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return h.reply(msg, "channel_id must be numeric")
	}
	parts := splitPipePayload(strings.Join(args[1:], " "))
	if len(parts) < 2 {
		return h.reply(msg, "Payload must be title|description[|image_url]")
	}

	cmd := panelusecases.SendAdhocPanelCommand{
		ChannelID:         channelID,
		Title:             parts[0],
		Description:       parts[1],
		WithTicketButtons: true,
	}
	if len(parts) > 2 {
		cmd.ImageURL = parts[2]
	}

	result, err := h.panels.Adhoc.Execute(ctx, cmd)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, fmt.Sprintf("Panel sent to channel %d (message %d).", result.ChannelID, result.MessageID))
}

func (h *CommandHandler) handlePost(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 2 {
		return h.reply(msg, "Usage: /post <channel_id> <title|description|color_hex|image_url>")
	}
	channelID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return h.reply(msg, "channel_id must be numeric")
	}
	parts := splitPipePayload(strings.Join(args[1:], " "))
	if len(parts) < 2 {
		return h.reply(msg, "Payload must be title|description[|color_hex][|image_url]")
	}

	cmd := panelusecases.SendAdhocPanelCommand{
		ChannelID:   channelID,
		Title:       parts[0],
		Description: parts[1],
	}
	if len(parts) > 2 {
		cmd.ColorHex = parts[2]
	}
	if len(parts) > 3 {
		cmd.ImageURL = parts[3]
	}

	result, err := h.panels.Adhoc.Execute(ctx, cmd)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, fmt.Sprintf("Post sent to channel %d (message %d).", result.ChannelID, result.MessageID))
}

func (h *CommandHandler) handlePostSave(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 2 {
		return h.reply(msg, "Usage: /post_save <name> <json>")
	}
	name := args[0]
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg.Text, "/post_save"), " "+name))

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return h.reply(msg, "Invalid JSON document: "+err.Error())
	}
	doc["name"] = name

	result, err := h.panels.Save.Execute(ctx, panelusecases.SaveTemplateCommand{Document: doc})
	if err != nil {
		return h.replyError(msg, err)
	}
	if result.IsTicketPanel {
		return h.reply(msg, fmt.Sprintf("Saved ticket panel %q.", result.Name))
	}
	return h.reply(msg, fmt.Sprintf("Saved template %q.", result.Name))
}

func (h *CommandHandler) handlePostSend(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 1 {
		return h.reply(msg, "Usage: /post_send <name> [channel_id]")
	}
	cmd := panelusecases.PublishPanelCommand{Name: args[0]}
	if len(args) > 1 {
		channelID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return h.reply(msg, "channel_id must be numeric")
		}
		cmd.ChannelID = channelID
	}

	result, err := h.panels.Publish.Execute(ctx, cmd)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, fmt.Sprintf("Published %q to channel %d (message %d).",
		result.Name, result.ChannelID, result.MessageID))
}

func (h *CommandHandler) handlePostEdit(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 3 {
		return h.reply(msg, "Usage: /post_edit <name> <field> <value>")
	}
	result, err := h.panels.Edit.Execute(ctx, panelusecases.EditTemplateFieldCommand{
		Name:  args[0],
		Field: args[1],
		Value: strings.Join(args[2:], " "),
	})
	if err != nil {
		return h.replyError(msg, err)
	}
	if result.LiveEdited {
		return h.reply(msg, fmt.Sprintf("Updated %q and refreshed the published panel.", result.Name))
	}
	return h.reply(msg, fmt.Sprintf("Updated %q.", result.Name))
}

func (h *CommandHandler) handlePostShow(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 1 {
		return h.reply(msg, "Usage: /post_show <name>")
	}
	result, err := h.panels.Show.Execute(ctx, panelusecases.ShowTemplateQuery{Name: args[0]})
	if err != nil {
		return h.replyError(msg, err)
	}

	var b strings.Builder
	tmpl := result.Template
	fmt.Fprintf(&b, "<b>%s</b>\n", tmpl.Name)
	fmt.Fprintf(&b, "channel: %d\n", tmpl.ChannelID)
	fmt.Fprintf(&b, "ticket panel: %t\n", tmpl.IsTicketPanel)
	for _, block := range result.Spec.Blocks {
		fmt.Fprintf(&b, "\n<b>%s</b> (#%06X)\n", block.Title, block.Color)
		preview, err := h.markdown.ToTelegramHTML(block.Description)
		if err != nil {
			preview = block.Description
		}
		b.WriteString(preview)
		b.WriteByte('\n')
	}
	for _, button := range result.Spec.Buttons {
		fmt.Fprintf(&b, "\n[row %d] %s", button.Row, button.Label)
	}

	if _, err := h.bot.SendMessageHTML(msg.Chat.ID, b.String()); err != nil {
		h.logger.Errorw("failed to send template preview", "chat_id", msg.Chat.ID, "error", err)
	}
	return nil
}

func (h *CommandHandler) handlePostList(ctx context.Context, msg *Message) error {
	summaries, err := h.panels.List.Execute(ctx)
	if err != nil {
		return h.replyError(msg, err)
	}
	if len(summaries) == 0 {
		return h.reply(msg, "No templates saved.")
	}

	var b strings.Builder
	b.WriteString("Templates:\n")
	for _, s := range summaries {
		marker := " "
		if s.Published {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s (channel %d)\n", marker, s.Name, s.ChannelID)
	}
	return h.reply(msg, b.String())
}

func (h *CommandHandler) handlePostDelete(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 1 {
		return h.reply(msg, "Usage: /post_delete <name>")
	}
	if err := h.panels.Delete.Execute(ctx, panelusecases.DeleteTemplateCommand{Name: args[0]}); err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, fmt.Sprintf("Deleted %q.", args[0]))
}

func (h *CommandHandler) handleRole(ctx context.Context, msg *Message, args []string) error {
	if len(args) < 2 {
		return h.reply(msg, "Usage: /role <user_id> <role> [chat_id]")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return h.reply(msg, "user_id must be numeric")
	}
	cmd := registryusecases.AssignRoleCommand{UserID: userID, Role: args[1]}
	if len(args) > 2 {
		chatID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return h.reply(msg, "chat_id must be numeric")
		}
		cmd.NotifyChatID = chatID
	}

	result, err := h.registry.Assign.Execute(ctx, cmd)
	if err != nil {
		return h.replyError(msg, err)
	}
	return h.reply(msg, fmt.Sprintf("User %d is now %s.", result.UserID, result.Role))
}

func (h *CommandHandler) isAdmin(userID int64) bool {
	for _, id := range h.cfg.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (h *CommandHandler) reply(msg *Message, text string) error {
	if _, err := h.bot.SendMessage(msg.Chat.ID, text); err != nil {
		h.logger.Errorw("failed to send reply", "chat_id", msg.Chat.ID, "error", err)
		return err
	}
	return nil
}

// replyError sends a short acknowledgment to the initiating actor; detail
// stays in the logs.
func (h *CommandHandler) replyError(msg *Message, err error) error {
	h.logger.Errorw("command failed", "chat_id", msg.Chat.ID, "error", err)

	text := "Something went wrong."
	if errors.IsValidationError(err) || errors.IsNotFoundError(err) {
		if appErr := errors.GetAppError(err); appErr != nil {
			text = appErr.Message
		}
	}
	return h.reply(msg, text)
}

// splitPipePayload splits "title|description|extra" and trims each field.
func splitPipePayload(payload string) []string {
	parts := strings.Split(payload, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitCommand parses "/cmd@bot arg1 arg2" into its command and arguments.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), fields[1:]
}
