package models

import "time"

// Deposit status values. A deposit leaves "pending" exactly once;
// "completed" and "rejected" are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

type Deposit struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Profile       *Profile        `gorm:"foreignKey:UserID" json:"-"`
	PlanID        uint            `gorm:"not null;index" json:"plan_id"`
	Plan          *InvestmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Amount        float64         `gorm:"type:decimal(15,2);not null" json:"amount"`
	CryptoType    string          `gorm:"size:10;not null" json:"crypto_type"`
	WalletAddress string          `gorm:"size:120;not null" json:"wallet_address"`
	Reference     string          `gorm:"type:varchar(191);uniqueIndex;not null" json:"reference"`
	Narration     *string         `gorm:"type:text" json:"narration,omitempty"`
	Status        string          `gorm:"size:20;default:'pending';index" json:"status"`
	AdminNotes    *string         `gorm:"type:text" json:"admin_notes,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"-"`
}

func (Deposit) TableName() string {
	return "blockfortunedeposits"
}

// Processed reports whether the deposit already left the pending state.
func (d *Deposit) Processed() bool {
	return d.Status != StatusPending
}
