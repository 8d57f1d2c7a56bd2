package models

import "time"

// Transaction is a per-user ledger audit row written alongside every fund
// movement (deposits, withdrawals, investments, referral payouts, accruals).
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charge          float64   `gorm:"type:decimal(15,2);not null;default:0" json:"charge"`
	Reference       string    `gorm:"type:varchar(191);not null;index" json:"reference"`
	TransactionFlow string    `gorm:"size:10;not null" json:"transaction_flow"`
	TransactionType string    `gorm:"size:50;not null" json:"transaction_type"`
	Message         *string   `gorm:"type:text" json:"message,omitempty"`
	Status          string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

func (Transaction) TableName() string {
	return "blockfortune_transactions"
}

// Ledger flow and type values.
const (
	FlowDebit  = "debit"
	FlowCredit = "credit"

	TypeDeposit           = "deposit"
	TypeWithdrawal        = "withdrawal"
	TypeInvestment        = "investment"
	TypeInvestmentReturn  = "investment_return"
	TypeDailyEarning      = "daily_earning"
	TypeReferralEarning   = "referral_earning"
	TypeBalanceAdjustment = "balance_adjustment"
)
