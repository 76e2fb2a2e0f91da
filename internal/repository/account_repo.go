package repository

import (
	"context"
	"errors"

	"bankapi/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create provisions an account row. Account creation is not part of the
// service API; this exists for provisioning tools and tests.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByIDForUpdate reads the account row under an exclusive row lock
// (SELECT ... FOR UPDATE) held until tx commits or rolls back.
//
// SQLite (used by tests) has no FOR UPDATE; its immediate write transactions
// already serialize writers, so the clause is skipped on that dialect.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*model.Account, error) {
	query := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var account model.Account
	err := query.Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Credit atomically increases the balance. Conditional on the row existing;
// no lock is needed because the increment cannot violate the non-negative
// invariant.
func (r *AccountRepository) Credit(ctx context.Context, tx *gorm.DB, id int64, amount decimal.Decimal) error {
	result := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Debit atomically decreases the balance, guarded by balance >= amount so the
// row can never go negative even if the caller's locked read went stale.
func (r *AccountRepository) Debit(ctx context.Context, tx *gorm.DB, id int64, amount decimal.Decimal) error {
	result := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		return ErrBalanceConflict
	}

	return nil
}
