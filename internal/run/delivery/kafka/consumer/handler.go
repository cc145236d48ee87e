package consumer

import (
	"github.com/IBM/sarama"
)

type submitHandler struct {
	consumer *Consumer
}

func (h *submitHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *submitHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks every message once handled. A submission that fails validation is
// dropped rather than retried, since replaying it cannot succeed.
func (h *submitHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.consumer.handleSubmitMessage(session.Context(), msg)
		session.MarkMessage(msg, "")
	}
	return nil
}
