package discord

import (
	"errors"
	"time"

	pkgHTTP "campaignqa-srv/pkg/http"
	"campaignqa-srv/pkg/log"
)

const (
	webhookURLFormat = "https://discord.com/api/webhooks/%s/%s"
	maxContentLen    = 1900
	maxDescLen       = 4000

	colorInfo    = 0x3498db
	colorWarning = 0xf1c40f
	colorError   = 0xe74c3c
)

var errWebhookRequired = errors.New("discord webhook id and token are required")

// Config contains configuration for Discord service.
type Config struct {
	Timeout         time.Duration
	RetryCount      int
	RetryDelay      time.Duration
	DefaultUsername string
}

// DefaultConfig returns the webhook client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		RetryCount:      2,
		RetryDelay:      time.Second,
		DefaultUsername: "campaign-qa",
	}
}

type discordImpl struct {
	l       log.Logger
	webhook *DiscordWebhook
	config  Config
	client  pkgHTTP.IClient
}

// MessageType defines different types of messages.
type MessageType string

const (
	MessageTypeInfo    MessageType = "info"
	MessageTypeWarning MessageType = "warning"
	MessageTypeError   MessageType = "error"
)

// EmbedField represents a field in a Discord embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed represents a Discord embed message.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// WebhookPayload represents the payload sent to Discord webhook.
type WebhookPayload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

// MessageOptions contains options for creating a message.
type MessageOptions struct {
	Type        MessageType
	Title       string
	Description string
	Fields      []EmbedField
	Timestamp   time.Time
}
