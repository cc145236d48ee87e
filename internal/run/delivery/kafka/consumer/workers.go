package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"campaignqa-srv/internal/model"
	kafkaDelivery "campaignqa-srv/internal/run/delivery/kafka"
	"campaignqa-srv/pkg/scope"

	"github.com/IBM/sarama"
)

// handleSubmitMessage decodes a submission and hands it to the usecase on behalf of its user.
func (c *Consumer) handleSubmitMessage(ctx context.Context, msg *sarama.ConsumerMessage) {
	c.l.Debugf(ctx, "run.delivery.kafka.consumer.handleSubmitMessage: partition %d, offset %d", msg.Partition, msg.Offset)

	var message kafkaDelivery.SubmitRunMessage
	if err := json.Unmarshal(msg.Value, &message); err != nil {
		c.l.Warnf(ctx, "run.delivery.kafka.consumer.handleSubmitMessage: invalid message format (skipping): %v", err)
		return
	}
	userID := strings.TrimSpace(message.UserID)
	if userID == "" {
		c.l.Warnf(ctx, "run.delivery.kafka.consumer.handleSubmitMessage: missing user_id (skipping)")
		return
	}

	sc := model.Scope{UserID: userID, Role: "service"}
	ctx = scope.SetScopeToContext(ctx, sc)

	out, err := c.uc.Submit(ctx, sc, toSubmitInput(message))
	if err != nil {
		c.l.Warnf(ctx, "run.delivery.kafka.consumer.handleSubmitMessage: usecase Submit rejected submission for user %s: %v", userID, err)
		return
	}

	c.l.Infof(ctx, "run.delivery.kafka.consumer.handleSubmitMessage: run %s submitted for user %s (%s)", out.Run.ID, userID, out.Run.Status)
}
