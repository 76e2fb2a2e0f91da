package repository

import (
	"context"
	"time"

	"bankapi/internal/model"

	"gorm.io/gorm"
)

type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// Create appends one ledger row. Must be called with the transaction that
// carries the matching balance change; the ledger is append-only and this
// repository deliberately has no update or delete methods.
func (r *OperationRepository) Create(ctx context.Context, tx *gorm.DB, op *model.Operation) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(op).Error
}

// ListByAccountID returns the account's operations newest-first, optionally
// bounded by an inclusive [from, to] timestamp window.
func (r *OperationRepository) ListByAccountID(ctx context.Context, accountID int64, from, to *time.Time) ([]*model.Operation, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Operation{}).
		Where("account_id = ?", accountID)

	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var operations []*model.Operation
	// id DESC breaks ties between rows sharing a timestamp (transfer pairs).
	err := query.Order("created_at DESC, id DESC").Find(&operations).Error
	return operations, err
}

// CountByAccountID is used by tests and reconciliation tooling.
func (r *OperationRepository) CountByAccountID(ctx context.Context, accountID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Operation{}).
		Where("account_id = ?", accountID).
		Count(&total).Error
	return total, err
}
