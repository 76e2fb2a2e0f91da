package service

import (
	"context"
	"log"
	"time"

	"bankapi/internal/config"
	"bankapi/internal/model"
	"bankapi/internal/repository"
	"bankapi/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService is the balance store plus the single-account mutation
// engine. Every mutation is one database transaction pairing the balance
// change with the ledger row (and outbox event) that justifies it.
type AccountService struct {
	db          *gorm.DB
	accountRepo *repository.AccountRepository
	ledger      *ledgerWriter
	cache       *balanceCache
}

func NewAccountService(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		accountRepo: repository.NewAccountRepository(db),
		ledger: &ledgerWriter{
			operationRepo: repository.NewOperationRepository(db),
			outboxRepo:    repository.NewOutboxRepository(db),
			topic:         cfg.Kafka.Topic.OperationEvents,
		},
		cache: &balanceCache{
			client: rdb,
			ttl:    time.Duration(cfg.Business.BalanceCacheTTLSeconds) * time.Second,
		},
	}
}

// GetBalance returns the current balance. A missing account is
// repository.ErrAccountNotFound, never a sentinel balance value.
func (s *AccountService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	if balance, ok := s.cache.get(ctx, accountID); ok {
		return balance, nil
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	s.cache.set(ctx, accountID, account.Balance)
	return account.Balance, nil
}

// Deposit credits the account and appends one Deposit ledger row atomically.
// A deposit cannot violate the non-negative invariant, so the conditional
// increment needs no row lock.
func (s *AccountService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.Credit(ctx, tx, accountID, amount); err != nil {
			return err
		}

		op := &model.Operation{
			OperationNo: idgen.GenerateOperationNo(),
			AccountID:   accountID,
			Type:        model.OperationTypeDeposit,
			Amount:      amount,
		}
		return s.ledger.append(ctx, tx, op)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx, accountID)
	log.Printf("[Account] deposit ok: accountID=%d, amount=%s", accountID, amount)
	return nil
}

// Withdraw debits the account and appends one Withdrawal ledger row
// atomically. The balance is re-read under an exclusive row lock before the
// funds check: checking a balance read outside the lock would race with a
// concurrent withdrawal and allow a lost update.
func (s *AccountService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return repository.ErrInsufficientFunds
		}

		if err := s.accountRepo.Debit(ctx, tx, accountID, amount); err != nil {
			return err
		}

		op := &model.Operation{
			OperationNo: idgen.GenerateOperationNo(),
			AccountID:   accountID,
			Type:        model.OperationTypeWithdrawal,
			Amount:      amount,
		}
		return s.ledger.append(ctx, tx, op)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx, accountID)
	log.Printf("[Account] withdraw ok: accountID=%d, amount=%s", accountID, amount)
	return nil
}
