package telegram

import (
	"context"

	"ticketbridge/internal/application/ports"
	"ticketbridge/internal/shared/errors"
)

// Notifier adapts BotService to the application's notification port.
// Digest and notice text is sent unformatted so user content never has to
// be escaped.
type Notifier struct {
	bot *BotService
}

func NewNotifier(bot *BotService) *Notifier {
	return &Notifier{bot: bot}
}

var _ ports.NotificationSender = (*Notifier)(nil)

// SendMessage sends text, splitting past the platform limit. The returned
// id is the first chunk's, so later edits land on the message recipients
// see first.
func (n *Notifier) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	var firstID int64
	for i, chunk := range splitMessage(text, maxMessageLength) {
		messageID, err := n.bot.SendMessage(chatID, chunk)
		if err != nil {
			if IsBotBlocked(err) {
				return 0, errors.NewExternalError("recipient has blocked the bot", err)
			}
			return 0, errors.NewExternalError("telegram send failed", err)
		}
		if i == 0 {
			firstID = messageID
		}
	}
	return firstID, nil
}

func (n *Notifier) EditMessage(ctx context.Context, chatID, messageID int64, text string) error {
	if err := n.bot.EditMessageText(chatID, messageID, text); err != nil {
		return errors.NewExternalError("telegram edit failed", err)
	}
	return nil
}

func (n *Notifier) SendDocument(ctx context.Context, chatID int64, artifact ports.Artifact) error {
	if err := n.bot.SendDocument(chatID, artifact.Name, artifact.Data); err != nil {
		return errors.NewExternalError("telegram document upload failed", err)
	}
	return nil
}

func (n *Notifier) SendMessageWithButtons(ctx context.Context, chatID int64, text string, rows [][]ports.InlineButton) (int64, error) {
	keyboard := &InlineKeyboardMarkup{}
	for _, row := range rows {
		var buttons []InlineKeyboardButton
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, buttons)
	}

	messageID, err := n.bot.SendMessageWithInlineKeyboard(chatID, text, keyboard)
	if err != nil {
		return 0, errors.NewExternalError("telegram send failed", err)
	}
	return messageID, nil
}
