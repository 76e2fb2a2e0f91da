package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the current balance for one account.
//
// Balance is fixed-point DECIMAL(18,2) and must never go below zero. The only
// writers are the deposit/withdraw/transfer services, always inside a
// transaction that also appends the justifying Operation rows.
type Account struct {
	ID        int64           `gorm:"primaryKey" json:"id"` // assigned by the provisioning system, not auto-increment
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
