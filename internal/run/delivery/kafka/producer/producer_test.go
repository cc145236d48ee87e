package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	kafkaDelivery "campaignqa-srv/internal/run/delivery/kafka"
	"campaignqa-srv/pkg/log"
)

type published struct {
	topic      string
	key, value []byte
}

type fakeKafka struct {
	msgs []published
	err  error
}

func (f *fakeKafka) Publish(topic string, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{topic: topic, key: key, value: value})
	return nil
}

func (f *fakeKafka) Close() error { return nil }

func TestPublishRoutesByEventType(t *testing.T) {
	k := &fakeKafka{}
	p := New(log.NewNop(), k, Topics{Progress: "qa.progress", Completed: "qa.completed"})
	score := 64.3
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	progress := run.Event{Type: run.EventProgress, RunID: "run-1", Status: model.RunStatusRunning, ProgressPct: 40, At: at,
		Result: &model.CheckResult{CheckID: "ssl_valid", Status: model.CheckStatusPassed}}
	completed := run.Event{Type: run.EventCompleted, RunID: "run-1", Status: model.RunStatusCompleted, ProgressPct: 100,
		ReadinessScore: &score, At: at}

	if err := p.PublishProgress(context.Background(), progress); err != nil {
		t.Fatalf("PublishProgress() error = %v", err)
	}
	if err := p.PublishCompleted(context.Background(), completed); err != nil {
		t.Fatalf("PublishCompleted() error = %v", err)
	}

	if len(k.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(k.msgs))
	}
	if k.msgs[0].topic != "qa.progress" || k.msgs[1].topic != "qa.completed" {
		t.Errorf("topics = %s, %s", k.msgs[0].topic, k.msgs[1].topic)
	}
	if string(k.msgs[0].key) != "run-1" {
		t.Errorf("key = %q, want run id", k.msgs[0].key)
	}

	var msg kafkaDelivery.RunEventMessage
	if err := json.Unmarshal(k.msgs[0].value, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.CheckID != "ssl_valid" || msg.CheckStatus != "passed" || msg.EventType != "run.progress" {
		t.Errorf("progress message = %+v", msg)
	}
	if err := json.Unmarshal(k.msgs[1].value, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.ReadinessScore == nil || *msg.ReadinessScore != 64.3 {
		t.Errorf("completed message score = %v", msg.ReadinessScore)
	}
}

func TestPublishReturnsBrokerError(t *testing.T) {
	want := errors.New("broker down")
	p := New(log.NewNop(), &fakeKafka{err: want}, Topics{Progress: "p", Completed: "c"})

	if err := p.PublishProgress(context.Background(), run.Event{RunID: "run-1"}); !errors.Is(err, want) {
		t.Errorf("PublishProgress() error = %v, want %v", err, want)
	}
}
