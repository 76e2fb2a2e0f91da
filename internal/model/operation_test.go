package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationTypeLabel(t *testing.T) {
	assert.Equal(t, "пополнение счета", OperationTypeDeposit.Label())
	assert.Equal(t, "снятие со счета", OperationTypeWithdrawal.Label())
	assert.Equal(t, "перевод (out)", OperationTypeTransferOut.Label())
	assert.Equal(t, "перевод (in)", OperationTypeTransferIn.Label())
}

func TestOperationTypeLabelUnknown(t *testing.T) {
	// an unmapped code must resolve to the explicit unknown label, not fail
	assert.Equal(t, "Неизвестный тип", OperationType(42).Label())
	assert.Equal(t, "Неизвестный тип", OperationType(0).Label())
}

func TestOperationTypeIsTransfer(t *testing.T) {
	assert.False(t, OperationTypeDeposit.IsTransfer())
	assert.False(t, OperationTypeWithdrawal.IsTransfer())
	assert.True(t, OperationTypeTransferOut.IsTransfer())
	assert.True(t, OperationTypeTransferIn.IsTransfer())
}
