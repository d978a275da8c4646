package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Sender posts messages through one bot.
type Sender struct {
	bot *bot.Bot
}

// New creates a Sender without calling getMe, so it can be built offline.
func New(token string) (*Sender, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &Sender{bot: b}, nil
}

// Send delivers a Markdown message to chatID.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
	}
	return nil
}
