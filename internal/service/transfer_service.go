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

// TransferService moves money between two accounts. One database transaction
// carries all five effects: debit, credit, the TransferOut row, the
// TransferIn row and the outbox events. Any error rolls back the whole unit.
type TransferService struct {
	db          *gorm.DB
	accountRepo *repository.AccountRepository
	ledger      *ledgerWriter
	cache       *balanceCache
}

func NewTransferService(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *TransferService {
	return &TransferService{
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

// Transfer debits fromID and credits toID atomically.
//
// Both rows are locked in ascending-id order regardless of transfer
// direction. Two opposite transfers between the same pair therefore acquire
// their locks in the same physical order, which rules out the circular wait
// that would otherwise deadlock them.
func (s *TransferService) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}

		accounts := make(map[int64]*model.Account, 2)
		for _, id := range []int64{first, second} {
			account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			accounts[id] = account
		}

		if accounts[fromID].Balance.LessThan(amount) {
			return repository.ErrInsufficientFunds
		}

		if err := s.accountRepo.Debit(ctx, tx, fromID, amount); err != nil {
			return err
		}
		if err := s.accountRepo.Credit(ctx, tx, toID, amount); err != nil {
			return err
		}

		// Both legs share one logical timestamp.
		now := time.Now()
		out := &model.Operation{
			OperationNo:    idgen.GenerateOperationNo(),
			AccountID:      fromID,
			Type:           model.OperationTypeTransferOut,
			Amount:         amount,
			CounterpartyID: &toID,
			CreatedAt:      now,
		}
		in := &model.Operation{
			OperationNo:    idgen.GenerateOperationNo(),
			AccountID:      toID,
			Type:           model.OperationTypeTransferIn,
			Amount:         amount,
			CounterpartyID: &fromID,
			CreatedAt:      now,
		}
		if err := s.ledger.append(ctx, tx, out); err != nil {
			return err
		}
		return s.ledger.append(ctx, tx, in)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx, fromID, toID)
	log.Printf("[Transfer] transfer ok: from=%d, to=%d, amount=%s", fromID, toID, amount)
	return nil
}
