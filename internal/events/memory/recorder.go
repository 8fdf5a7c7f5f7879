package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces"
)

// Message is one published event.
type Message struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps published events in memory. It stands in for a broker in
// tests and in deployments without one.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	limit    int
}

// NewRecorder keeps at most limit messages, dropping the oldest; limit <= 0
// keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Topic: topic, Key: key, Event: event})
	if r.limit > 0 && len(r.messages) > r.limit {
		r.messages = r.messages[len(r.messages)-r.limit:]
	}
	return nil
}

// Messages returns a copy of the recorded messages, oldest first.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Topic returns the recorded messages published to topic.
func (r *Recorder) Topic(topic string) []Message {
	var out []Message
	for _, m := range r.Messages() {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

var _ interfaces.EventPublisher = (*Recorder)(nil)
