package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultAPIURL = "https://api.telegram.org"

// Client represents a Telegram bot client
type Client struct {
	botToken  string
	channelID string
	http      *resty.Client
	apiURL    string
}

// NewClient creates a new Telegram bot client
func NewClient(botToken, channelID string) *Client {
	return &Client{
		botToken:  botToken,
		channelID: channelID,
		http: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json"),
		apiURL: defaultAPIURL,
	}
}

// WithAPIURL points the client at another Bot API server
func (c *Client) WithAPIURL(apiURL string) *Client {
	c.apiURL = strings.TrimRight(apiURL, "/")
	return c
}

// SendMessageRequest represents a Telegram sendMessage request
type SendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// TelegramResponse represents a Telegram API response
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage sends a message to the configured Telegram channel
func (c *Client) SendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)

	var tgResp TelegramResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(SendMessageRequest{ChatID: c.channelID, Text: text, ParseMode: "HTML"}).
		SetResult(&tgResp).
		SetError(&tgResp).
		Post(url)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	if !tgResp.OK {
		if tgResp.Description == "" {
			tgResp.Description = resp.Status()
		}
		return fmt.Errorf("telegram API error: %s", tgResp.Description)
	}

	return nil
}

// LowFundsAlert describes a wallet whose balance dropped below its minimum
type LowFundsAlert struct {
	Handler    string
	Coin       string
	Wallet     string
	Balance    string
	MinBalance string
	Count      int
	Time       time.Time
}

// FormatLowFundsMessage formats a low wallet balance alert
func FormatLowFundsMessage(alert LowFundsAlert) string {
	var builder strings.Builder

	if alert.Count > 1 {
		fmt.Fprintf(&builder, "<b>⚠️ Wallet balance still low (notice #%d)</b>\n\n", alert.Count)
	} else {
		builder.WriteString("<b>⚠️ Wallet balance low</b>\n\n")
	}
	fmt.Fprintf(&builder, "<b>Handler:</b> <code>%s</code>\n", escapeHTML(alert.Handler))
	fmt.Fprintf(&builder, "<b>Coin:</b> <code>%s</code>\n", escapeHTML(alert.Coin))
	fmt.Fprintf(&builder, "<b>Wallet:</b> <code>%s</code>\n", escapeHTML(alert.Wallet))
	fmt.Fprintf(&builder, "<b>Balance:</b> <code>%s</code>\n", escapeHTML(alert.Balance))
	fmt.Fprintf(&builder, "<b>Minimum:</b> <code>%s</code>\n", escapeHTML(alert.MinBalance))
	fmt.Fprintf(&builder, "<b>Time:</b> <code>%s</code>\n", alert.Time.UTC().Format("2006-01-02 15:04:05 UTC"))

	return builder.String()
}

// escapeHTML escapes HTML special characters
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
