package notify

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mymmrac/telego"

	"discord-gban/internal/config"
	"discord-gban/internal/logger"
)

// Telegram caps message text at 4096 characters.
const maxMessageLength = 4096

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramMirror copies global ban summaries into an operator Telegram chat.
type TelegramMirror struct {
	bot     messageSender
	chatID  int64
	timeout time.Duration
}

// NewTelegramMirror returns nil when the mirror is disabled.
func NewTelegramMirror(cfg config.TelegramConfig) (*TelegramMirror, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	bot, err := telego.NewBot(cfg.Token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	logger.Infof("Mirroring global ban summaries to Telegram chat %d", cfg.ChatID)
	return newTelegramMirror(bot, cfg.ChatID), nil
}

func newTelegramMirror(bot messageSender, chatID int64) *TelegramMirror {
	return &TelegramMirror{bot: bot, chatID: chatID, timeout: 10 * time.Second}
}

// Mirror sends text to the chat. Failures are logged and never returned.
func (m *TelegramMirror) Mirror(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err := m.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: m.chatID},
		Text:   truncate(text, maxMessageLength),
	})
	if err != nil {
		logger.Warningf("Failed to mirror summary to Telegram chat %d: %v", m.chatID, err)
	}
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
