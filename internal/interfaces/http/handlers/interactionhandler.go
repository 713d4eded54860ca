// Package handlers contains the HTTP handlers of the interaction webhook.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ticketUsecases "ticketbridge/internal/application/ticket/usecases"
	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/infrastructure/discord"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

const (
	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"
)

// InteractionHandler receives interaction webhooks from the primary
// platform and drives the ticket lifecycle from button presses.
type InteractionHandler struct {
	verifier     *discord.SignatureVerifier
	createTicket ticketUsecases.CreateTicketExecutor
	closeTicket  ticketUsecases.CloseTicketExecutor
	templates    template.Repository
	logger       logger.Interface
}

func NewInteractionHandler(
	verifier *discord.SignatureVerifier,
	createTicket ticketUsecases.CreateTicketExecutor,
	closeTicket ticketUsecases.CloseTicketExecutor,
	templates template.Repository,
	log logger.Interface,
) *InteractionHandler {
	return &InteractionHandler{
		verifier:     verifier,
		createTicket: createTicket,
		closeTicket:  closeTicket,
		templates:    templates,
		logger:       log,
	}
}

// Handle verifies and dispatches one interaction. Unverifiable requests
// are rejected with 401 as the webhook contract requires.
func (h *InteractionHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader(headerSignature)
	timestamp := c.GetHeader(headerTimestamp)
	if !h.verifier.Verify(timestamp, body, signature) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid request signature"})
		return
	}

	var interaction discord.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed interaction"})
		return
	}

	switch interaction.Type {
	case discord.InteractionPing:
		c.JSON(http.StatusOK, discord.InteractionResponse{Type: discord.ResponsePong})
	case discord.InteractionMessageComponent:
		c.JSON(http.StatusOK, h.handleComponent(c.Request.Context(), &interaction))
	default:
		c.JSON(http.StatusOK, ephemeral("Unsupported interaction."))
	}
}

func (h *InteractionHandler) handleComponent(ctx context.Context, interaction *discord.Interaction) discord.InteractionResponse {
	customID := ""
	if interaction.Data != nil {
		customID = interaction.Data.CustomID
	}

	switch customID {
	case template.CustomIDOpenOrder:
		return h.openTicket(ctx, interaction, ticket.KindOrder)
	case template.CustomIDOpenSupport:
		return h.openTicket(ctx, interaction, ticket.KindSupport)
	case template.CustomIDClose:
		return h.closeChannel(ctx, interaction)
	default:
		h.logger.Warnw("unknown component pressed", "custom_id", customID)
		return ephemeral("This button is no longer wired up.")
	}
}

func (h *InteractionHandler) openTicket(ctx context.Context, interaction *discord.Interaction, kind ticket.Kind) discord.InteractionResponse {
	invoker := interaction.Invoker()

	result, err := h.createTicket.Execute(ctx, ticketUsecases.CreateTicketCommand{
		Kind:         kind,
		OpenerID:     int64(invoker.ID),
		OpenerName:   invoker.Username,
		TemplateName: h.templateNameForMessage(ctx, interaction.Message),
	})
	if err != nil {
		h.logger.Errorw("failed to open ticket from button press",
			"kind", kind, "opener_id", int64(invoker.ID), "error", err)
		return ephemeral("Could not open a ticket right now, please try again.")
	}

	return ephemeral(fmt.Sprintf("Your %s ticket is ready: #%s", kind, result.ChannelName))
}

func (h *InteractionHandler) closeChannel(ctx context.Context, interaction *discord.Interaction) discord.InteractionResponse {
	invoker := interaction.Invoker()

	_, err := h.closeTicket.Execute(ctx, ticketUsecases.CloseTicketCommand{
		ChannelID: int64(interaction.ChannelID),
		ClosedBy:  int64(invoker.ID),
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			return ephemeral("This channel is not a ticket.")
		}
		h.logger.Errorw("failed to close ticket from button press",
			"channel_id", int64(interaction.ChannelID), "error", err)
		return ephemeral("Could not close the ticket, please try again.")
	}

	return ephemeral("Ticket closed.")
}

// templateNameForMessage finds the panel template whose published message
// the press arrived on, so the ticket greeting uses that panel's auto
// reply. Presses on unknown messages fall back to the generic greeting.
func (h *InteractionHandler) templateNameForMessage(ctx context.Context, msg *discord.Message) string {
	if msg == nil {
		return ""
	}
	all, err := h.templates.List(ctx)
	if err != nil {
		return ""
	}
	for _, tmpl := range all {
		if tmpl.LastMessageID != 0 && tmpl.LastMessageID == int64(msg.ID) {
			return tmpl.Name
		}
	}
	return ""
}

func ephemeral(content string) discord.InteractionResponse {
	return discord.InteractionResponse{
		Type: discord.ResponseChannelMessage,
		Data: &discord.ResponseData{
			Content: content,
			Flags:   discord.MessageFlagEphemeral,
		},
	}
}
