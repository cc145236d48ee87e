package consumer

import (
	"context"
	"fmt"

	pkgKafka "campaignqa-srv/pkg/kafka"
)

// ConsumeSubmissions starts consuming run submissions in the background.
func (c *Consumer) ConsumeSubmissions(ctx context.Context) error {
	group, err := pkgKafka.NewConsumer(pkgKafka.ConsumerConfig{
		Brokers: c.kafkaConfig.Brokers,
		GroupID: c.kafkaConfig.ConsumerGroup,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer group %s: %w", c.kafkaConfig.ConsumerGroup, err)
	}
	c.submitGroup = group

	handler := &submitHandler{consumer: c}
	topics := []string{c.kafkaConfig.SubmitTopic}

	go func() {
		if err := group.ConsumeWithContext(ctx, topics, handler); err != nil {
			c.l.Errorf(ctx, "run.delivery.kafka.consumer.ConsumeSubmissions: consumer stopped: %v", err)
		}
	}()

	go func() {
		for err := range group.Errors() {
			c.l.Errorf(ctx, "run.delivery.kafka.consumer.ConsumeSubmissions: consumer group error: %v", err)
		}
	}()

	c.l.Infof(ctx, "Consuming %s", c.kafkaConfig.SubmitTopic)
	return nil
}
