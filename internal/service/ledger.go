package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bankapi/internal/model"
	"bankapi/internal/repository"

	"gorm.io/gorm"
)

// ledgerWriter appends a ledger row together with its outbox event. Both
// writes go through the caller's transaction, so an event row exists exactly
// when the operation committed.
type ledgerWriter struct {
	operationRepo *repository.OperationRepository
	outboxRepo    *repository.OutboxRepository
	topic         string
}

// operationEvent is the payload published to Kafka for every committed
// ledger row.
type operationEvent struct {
	OperationNo    string `json:"operation_no"`
	AccountID      int64  `json:"account_id"`
	Type           int16  `json:"type"`
	TypeLabel      string `json:"type_label"`
	Amount         string `json:"amount"`
	CounterpartyID *int64 `json:"counterparty_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

func (w *ledgerWriter) append(ctx context.Context, tx *gorm.DB, op *model.Operation) error {
	if err := w.operationRepo.Create(ctx, tx, op); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}

	event := operationEvent{
		OperationNo:    op.OperationNo,
		AccountID:      op.AccountID,
		Type:           int16(op.Type),
		TypeLabel:      op.Type.Label(),
		Amount:         op.Amount.String(),
		CounterpartyID: op.CounterpartyID,
		OccurredAt:     op.CreatedAt.Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal operation event: %w", err)
	}

	msg := &model.OutboxMessage{
		MessageKey: op.OperationNo,
		Topic:      w.topic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
	if err := w.outboxRepo.Create(ctx, tx, msg); err != nil {
		return fmt.Errorf("append outbox event: %w", err)
	}
	return nil
}
