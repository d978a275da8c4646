package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"station-dashboard/internal/config"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/models"
	"station-dashboard/internal/utils"
	"station-dashboard/pkg/telegram"
)

const (
	telegramAttempts   = 3
	telegramRetryDelay = time.Second
)

type chatSender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Telegram posts station alerts to a fixed set of chats.
type Telegram struct {
	sender  chatSender
	chatIDs []int64
	limiter *rate.Limiter
	logger  *logging.Logger
	delay   time.Duration
}

// NewTelegram builds the provider from config.
func NewTelegram(cfg config.Config, logger *logging.Logger) (*Telegram, error) {
	sender, err := telegram.New(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return newTelegram(sender, cfg.Telegram.ChatIDs, cfg.Telegram.RateLimit, logger), nil
}

func newTelegram(sender chatSender, chatIDs []int64, ratePerSecond int, logger *logging.Logger) *Telegram {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Telegram{
		sender:  sender,
		chatIDs: chatIDs,
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:  logger,
		delay:   telegramRetryDelay,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Send delivers the alert to every chat. Errors for individual chats are
// joined so the remaining chats still receive it.
func (t *Telegram) Send(ctx context.Context, alert models.Alert) error {
	if len(t.chatIDs) == 0 {
		return fmt.Errorf("no telegram chat_ids configured")
	}
	text := FormatAlert(alert)
	var errs []error
	for _, chatID := range t.chatIDs {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("telegram rate limit wait: %w", err)
		}
		err := utils.Retry(ctx, t.logger, telegramAttempts, t.delay, func() error {
			return t.sender.Send(ctx, chatID, text)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FormatAlert renders an alert as a Markdown message.
func FormatAlert(alert models.Alert) string {
	title := "Station at risk"
	if alert.Kind == models.AlertCleared {
		title = "Station recovered"
	}
	flags := "none"
	if len(alert.Flags) > 0 {
		flags = strings.Join(alert.Flags, ", ")
	}
	return fmt.Sprintf(
		"*%s*\n"+
			"*Station:* %s (%s)\n"+
			"*Score:* %d/4\n"+
			"*Flags:* %s\n"+
			"*Tick:* %d at %s",
		title,
		alert.StationID,
		alert.Department,
		alert.Score,
		flags,
		alert.Seq,
		alert.RaisedAt.Format("15:04:05"),
	)
}
