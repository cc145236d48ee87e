package producer

import (
	"campaignqa-srv/internal/run"
	pkgKafka "campaignqa-srv/pkg/kafka"
	"campaignqa-srv/pkg/log"
)

// Topics names the topics run events are published to.
type Topics struct {
	Progress  string
	Completed string
}

// Producer interface for run domain
type Producer interface {
	run.Producer
}

type implProducer struct {
	l        log.Logger
	producer pkgKafka.IProducer
	topics   Topics
}

// New creates a new run event producer
func New(l log.Logger, producer pkgKafka.IProducer, topics Topics) Producer {
	return &implProducer{
		l:        l,
		producer: producer,
		topics:   topics,
	}
}
