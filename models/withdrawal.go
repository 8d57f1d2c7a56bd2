package models

import "time"

type Withdrawal struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Profile       *Profile   `gorm:"foreignKey:UserID" json:"-"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	NetworkFee    float64    `gorm:"type:decimal(15,2);not null;default:0" json:"network_fee"`
	CryptoType    string     `gorm:"size:10;not null" json:"crypto_type"`
	WalletAddress string     `gorm:"size:120;not null" json:"wallet_address"`
	Reference     string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"reference"`
	Status        string     `gorm:"size:20;default:'pending';index" json:"status"`
	AdminNotes    *string    `gorm:"type:text" json:"admin_notes,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"-"`
}

func (Withdrawal) TableName() string {
	return "blockfortunewithdrawals"
}

// Processed reports whether the withdrawal already left the pending state.
func (w *Withdrawal) Processed() bool {
	return w.Status != StatusPending
}

// Total is the amount reserved from the user's balance at request time.
func (w *Withdrawal) Total() float64 {
	return w.Amount + w.NetworkFee
}
