package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"campaignqa-srv/internal/run"
	kafkaDelivery "campaignqa-srv/internal/run/delivery/kafka"
)

// PublishProgress publishes a progress event, keyed by run id so a run's events stay ordered.
func (p *implProducer) PublishProgress(ctx context.Context, ev run.Event) error {
	return p.publish(ctx, p.topics.Progress, ev)
}

// PublishCompleted publishes a terminal event.
func (p *implProducer) PublishCompleted(ctx context.Context, ev run.Event) error {
	return p.publish(ctx, p.topics.Completed, ev)
}

func (p *implProducer) publish(ctx context.Context, topic string, ev run.Event) error {
	data, err := json.Marshal(toEventMessage(ev))
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	if err := p.producer.Publish(topic, []byte(ev.RunID), data); err != nil {
		p.l.Errorf(ctx, "run.delivery.kafka.producer.publish: Publish to %s failed: %v", topic, err)
		return err
	}
	return nil
}

func toEventMessage(ev run.Event) kafkaDelivery.RunEventMessage {
	msg := kafkaDelivery.RunEventMessage{
		EventType:      string(ev.Type),
		RunID:          ev.RunID,
		UserID:         ev.UserID,
		Status:         string(ev.Status),
		ProgressPct:    ev.ProgressPct,
		TotalChecks:    ev.TotalChecks,
		PassedChecks:   ev.PassedChecks,
		FailedChecks:   ev.FailedChecks,
		WarningChecks:  ev.WarningChecks,
		ReadinessScore: ev.ReadinessScore,
		ErrorMessage:   ev.ErrorMessage,
		OccurredAt:     ev.At,
	}
	if ev.Result != nil {
		msg.CheckID = ev.Result.CheckID
		msg.CheckStatus = string(ev.Result.Status)
	}
	return msg
}
