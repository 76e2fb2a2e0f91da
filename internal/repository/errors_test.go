package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}, true},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"wrapped deadlock", fmt.Errorf("debit account: %w", &mysql.MySQLError{Number: 1213}), true},
		{"balance conflict", ErrBalanceConflict, true},
		{"wrapped balance conflict", fmt.Errorf("transfer: %w", ErrBalanceConflict), true},
		{"duplicate key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"account not found", ErrAccountNotFound, false},
		{"insufficient funds", ErrInsufficientFunds, false},
		{"plain error", errors.New("broken pipe"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
