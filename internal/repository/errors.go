package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceConflict means a guarded balance update matched no row even
	// though the row exists with sufficient funds. It can only happen when a
	// concurrent writer slipped between read and update, so it is retryable.
	ErrBalanceConflict = errors.New("concurrent balance update conflict")
)

// MySQL server error codes surfaced on lock contention.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// IsRetryable reports whether err is a storage-transient failure (deadlock or
// lock-wait timeout). The caller owns the retry policy; the services never
// retry internally.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrBalanceConflict) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
	}
	return false
}
