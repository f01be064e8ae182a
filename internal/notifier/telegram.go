package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org/bot"
	// telegramMessageLimit is the Bot API cap on message text length.
	telegramMessageLimit = 4096
)

// TelegramNotifier sends new draws to one chat as a digest
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *resty.Client
}

// NewTelegramNotifier creates a notifier for the given bot and chat
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, errors.New("bot token is required")
	}
	if chatID == "" {
		return nil, errors.New("chat ID is required")
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBaseURL,
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}, nil
}

// NewTelegramNotifierFromEnv reads TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
func NewTelegramNotifierFromEnv() (*TelegramNotifier, error) {
	return NewTelegramNotifier(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"))
}

// Notify sends the draws as one digest, split into several messages when it
// exceeds the message size limit.
func (n *TelegramNotifier) Notify(ctx context.Context, draws []*draw.Draw) error {
	for _, msg := range formatDigest(draws) {
		if err := n.sendMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":                  n.chatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		SetResult(&result).
		SetError(&result).
		Post(n.baseURL + n.botToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode(), result.Description)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// formatDigest renders draws as HTML messages, each within telegramMessageLimit.
func formatDigest(draws []*draw.Draw) []string {
	if len(draws) == 0 {
		return nil
	}

	header := fmt.Sprintf("<b>大乐透开奖</b> • %d new draw%s\n\n", len(draws), pluralize(len(draws)))
	var messages []string
	var b strings.Builder
	b.WriteString(header)
	for _, d := range draws {
		section := html.EscapeString(formatMessage(d)) + "\n\n"
		if b.Len() > len(header) && b.Len()+len(section) > telegramMessageLimit {
			messages = append(messages, strings.TrimSpace(b.String()))
			b.Reset()
		}
		b.WriteString(section)
	}
	return append(messages, strings.TrimSpace(b.String()))
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
