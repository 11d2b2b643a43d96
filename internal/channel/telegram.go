package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/notify-relay/internal/domain"
)

const (
	defaultTelegramBaseURL = "https://api.telegram.org"
	defaultTelegramTimeout = 10 * time.Second
)

// TelegramConfig holds the chat-bot credential, read once at startup. An
// empty token leaves the transport unconfigured; Send then fails fast
// without a network call.
type TelegramConfig struct {
	BotToken string
	BaseURL  string
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramTransport posts the notification body to the platform's
// sendMessage endpoint using the recipient's chat id.
type TelegramTransport struct {
	client  *resty.Client
	token   string
	baseURL string
}

func NewTelegramTransport(cfg TelegramConfig) *TelegramTransport {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}

	client := resty.New()
	client.SetTimeout(defaultTelegramTimeout)
	client.SetRetryCount(0)

	return &TelegramTransport{
		client:  client,
		token:   strings.TrimSpace(cfg.BotToken),
		baseURL: baseURL,
	}
}

func (t *TelegramTransport) Kind() domain.Channel { return domain.ChannelTelegram }

func (t *TelegramTransport) Send(ctx context.Context, notification *domain.Notification, recipient *domain.Recipient) error {
	if t == nil || t.token == "" {
		return newConfigError(domain.ChannelTelegram.String(), "bot token not configured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	reqBody := telegramSendRequest{
		ChatID: recipient.TelegramChatID,
		Text:   notification.Body,
	}

	response, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(endpoint)
	if err != nil {
		return &TransportError{
			Channel: domain.ChannelTelegram.String(),
			Reason:  "telegram request failed",
			Cause:   err,
		}
	}

	var parsed telegramSendResponse
	parseErr := json.Unmarshal(response.Body(), &parsed)

	if response.StatusCode() == http.StatusOK && parseErr == nil && parsed.OK {
		return nil
	}

	reason := strings.TrimSpace(parsed.Description)
	if reason == "" {
		reason = fmt.Sprintf("HTTP %d", response.StatusCode())
	}

	return &TransportError{
		Channel: domain.ChannelTelegram.String(),
		Reason:  reason,
		Cause:   parseErr,
	}
}
