package ledger

import (
	"time"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces"
)

type Option func(*Ledger)

// WithJournal makes every accepted operation durable before it is applied.
func WithJournal(j interfaces.JournalStore) Option {
	return func(l *Ledger) { l.journal = j }
}

func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithTopicPrefix sets the prefix of event topics, "ledger" by default.
func WithTopicPrefix(prefix string) Option {
	return func(l *Ledger) { l.topicPrefix = prefix }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func WithSnapshotPolicy(p SnapshotPolicy) Option {
	return func(l *Ledger) { l.snapshotPolicy = p }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}
