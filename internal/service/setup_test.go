package service

import (
	"context"
	"path/filepath"
	"testing"

	"bankapi/internal/config"
	"bankapi/internal/model"
	"bankapi/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database. _txlock=immediate makes every
// transaction take the write lock up front, which serializes concurrent
// atomic units the way InnoDB row locks do for this workload.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "bankapi.db") +
		"?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Account{},
		&model.Operation{},
		&model.OutboxMessage{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{OperationEvents: "operation_events"},
		},
		Business: config.BusinessConfig{
			BalanceCacheTTLSeconds: 5,
			MaxRetryCount:          3,
		},
	}
}

func seedAccount(t *testing.T, db *gorm.DB, id int64, balance string) {
	t.Helper()
	repo := repository.NewAccountRepository(db)
	err := repo.Create(context.Background(), &model.Account{
		ID:      id,
		Balance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
}

func accountBalance(t *testing.T, db *gorm.DB, id int64) decimal.Decimal {
	t.Helper()
	account, err := repository.NewAccountRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func accountOperations(t *testing.T, db *gorm.DB, id int64) []*model.Operation {
	t.Helper()
	ops, err := repository.NewOperationRepository(db).ListByAccountID(context.Background(), id, nil, nil)
	require.NoError(t, err)
	return ops
}
