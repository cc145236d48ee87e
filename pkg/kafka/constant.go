package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const (
	ProducerTimeout  = 10 * time.Second
	ProducerRetryMax = 3
)

// KafkaVersion is the sarama protocol version used by producers and consumers.
var KafkaVersion = sarama.V2_6_0_0
