package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/amount"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models/events"
)

const (
	TopicTransfer = "transfer"
	TopicApproval = "approval"
	TopicSupply   = "supply"
	TopicSnapshot = "snapshot"
	TopicRole     = "role"
	TopicMetadata = "metadata"
)

// Topic returns the full topic name for an event kind, e.g. "ledger.transfer".
func (l *Ledger) Topic(kind string) string {
	if l.topicPrefix == "" {
		return kind
	}
	return l.topicPrefix + "." + kind
}

// publish hands evt to the publisher. Delivery is best effort: the operation
// has already been applied, so failures are logged and not returned.
func (l *Ledger) publish(ctx context.Context, evt pending) {
	if l.publisher == nil || evt.event == nil {
		return
	}
	if err := l.publisher.Publish(ctx, evt.topic, evt.key, evt.event); err != nil {
		l.log.Warn("failed to publish event",
			zap.String("topic", evt.topic),
			zap.String("key", evt.key),
			zap.Error(err),
		)
	}
}

func (l *Ledger) transferEvent(op models.Operation, from models.Address) pending {
	e := events.TransferCompleted{
		OperationID: op.ID,
		From:        from.String(),
		To:          op.To.String(),
		RawAmount:   op.Amount.Dec(),
		Amount:      amount.Format(op.Amount, l.decimals),
		Epoch:       op.Epoch,
		OccurredAt:  op.CreatedAt,
	}
	if op.Kind == models.OpTransferFrom {
		e.Spender = op.Caller.String()
	}
	return pending{topic: l.Topic(TopicTransfer), key: e.From, event: e}
}

func (l *Ledger) approvalEvent(op models.Operation) pending {
	e := events.ApprovalSet{
		OperationID: op.ID,
		Owner:       op.Caller.String(),
		Spender:     op.Spender.String(),
		RawAmount:   op.Amount.Dec(),
		Amount:      amount.Format(op.Amount, l.decimals),
		OccurredAt:  op.CreatedAt,
	}
	return pending{topic: l.Topic(TopicApproval), key: e.Owner, event: e}
}

func (l *Ledger) supplyEvent(op models.Operation, account models.Address, minted bool) pending {
	delta := amount.Format(op.Amount, l.decimals)
	if !minted {
		delta = delta.Neg()
	}
	e := events.SupplyChanged{
		OperationID:    op.ID,
		Account:        account.String(),
		Delta:          delta,
		RawTotalSupply: l.totalSupply.Dec(),
		Epoch:          op.Epoch,
		OccurredAt:     op.CreatedAt,
	}
	return pending{topic: l.Topic(TopicSupply), key: e.Account, event: e}
}

func (l *Ledger) snapshotEvent(op models.Operation, closed uint64) pending {
	e := events.SnapshotTaken{
		OperationID: op.ID,
		SnapshotID:  closed,
		OccurredAt:  op.CreatedAt,
	}
	return pending{topic: l.Topic(TopicSnapshot), key: TopicSnapshot, event: e}
}

func (l *Ledger) roleEvent(op models.Operation, role string, previous, current models.Address) pending {
	e := events.RoleUpdated{
		OperationID: op.ID,
		Role:        role,
		Previous:    previous.String(),
		Current:     current.String(),
		OccurredAt:  op.CreatedAt,
	}
	return pending{topic: l.Topic(TopicRole), key: role, event: e}
}

func (l *Ledger) metadataEvent(op models.Operation) pending {
	e := events.MetadataUpdated{
		OperationID: op.ID,
		Name:        op.Name,
		Symbol:      op.Symbol,
		OccurredAt:  op.CreatedAt,
	}
	return pending{topic: l.Topic(TopicMetadata), key: TopicMetadata, event: e}
}
