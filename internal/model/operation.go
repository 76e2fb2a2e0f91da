package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Operation types
// ============================================================================

// OperationType is the ledger row type code. The numeric codes are part of
// the stored schema and must not be renumbered.
type OperationType int16

const (
	OperationTypeDeposit     OperationType = 1
	OperationTypeWithdrawal  OperationType = 2
	OperationTypeTransferOut OperationType = 3
	OperationTypeTransferIn  OperationType = 4
)

// typeLabels maps stored type codes to user-facing labels.
var typeLabels = map[OperationType]string{
	OperationTypeDeposit:     "пополнение счета",
	OperationTypeWithdrawal:  "снятие со счета",
	OperationTypeTransferOut: "перевод (out)",
	OperationTypeTransferIn:  "перевод (in)",
}

// Label returns the display label for the type. Unrecognized codes get an
// explicit unknown label instead of failing the whole listing.
func (t OperationType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "Неизвестный тип"
}

// IsTransfer reports whether rows of this type carry a counterparty.
func (t OperationType) IsTransfer() bool {
	return t == OperationTypeTransferOut || t == OperationTypeTransferIn
}

// ============================================================================
// Ledger entity
// ============================================================================

// Operation is one immutable ledger row.
//
// Ledger rules:
//  1. Append only — rows are never updated or deleted.
//  2. Every row is written in the same transaction as the balance change it
//     justifies (one row for deposit/withdrawal, a paired out/in for transfer).
//  3. CounterpartyID is set iff the type is a transfer leg; both legs of a
//     transfer share the same amount and the same created_at.
type Operation struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OperationNo    string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"operation_no"` // globally unique, snowflake based
	AccountID      int64           `gorm:"index;not null" json:"account_id"`
	Type           OperationType   `gorm:"column:operation_type;not null" json:"type"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"` // always > 0, direction comes from Type
	CounterpartyID *int64          `gorm:"column:counterparty_id" json:"counterparty_id,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Operation) TableName() string {
	return "operations"
}
