package discord

import (
	"context"
	"fmt"
	"time"
)

func (d *discordImpl) SendMessage(ctx context.Context, content string) error {
	return d.send(ctx, WebhookPayload{
		Content:  truncate(content, maxContentLen),
		Username: d.config.DefaultUsername,
	})
}

func (d *discordImpl) SendEmbed(ctx context.Context, options MessageOptions) error {
	ts := options.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return d.send(ctx, WebhookPayload{
		Username: d.config.DefaultUsername,
		Embeds: []Embed{{
			Title:       options.Title,
			Description: truncate(options.Description, maxDescLen),
			Color:       colorFor(options.Type),
			Timestamp:   ts.UTC().Format(time.RFC3339),
			Fields:      options.Fields,
		}},
	})
}

func (d *discordImpl) SendError(ctx context.Context, title, description string, err error) error {
	fields := []EmbedField{}
	if err != nil {
		fields = append(fields, EmbedField{Name: "error", Value: truncate(err.Error(), 1000)})
	}
	return d.SendEmbed(ctx, MessageOptions{
		Type:        MessageTypeError,
		Title:       title,
		Description: description,
		Fields:      fields,
	})
}

func (d *discordImpl) ReportBug(ctx context.Context, message string) error {
	return d.SendMessage(ctx, "```"+truncate(message, maxContentLen-6)+"```")
}

func (d *discordImpl) send(ctx context.Context, payload WebhookPayload) error {
	url := fmt.Sprintf(webhookURLFormat, d.webhook.ID, d.webhook.Token)
	_, status, err := d.client.Post(ctx, url, payload, nil)
	if err != nil {
		d.l.Warnf(ctx, "discord.send: %v", err)
		return err
	}
	if status >= 300 {
		d.l.Warnf(ctx, "discord.send: webhook responded %d", status)
		return fmt.Errorf("discord webhook responded %d", status)
	}
	return nil
}

func colorFor(t MessageType) int {
	switch t {
	case MessageTypeError:
		return colorError
	case MessageTypeWarning:
		return colorWarning
	default:
		return colorInfo
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
