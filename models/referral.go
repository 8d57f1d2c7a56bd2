package models

import "time"

// Referral status values.
const (
	ReferralPending = "pending"
	ReferralPaid    = "paid"
)

// Referral records commission earned by a referrer from a referee's approved
// deposit. Rows start pending and flip to paid when the referrer withdraws
// their earnings.
type Referral struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReferrerID   uint      `gorm:"not null;index" json:"referrer_id"`
	RefereeID    uint      `gorm:"not null;index" json:"referee_id"`
	DepositID    *uint     `gorm:"index" json:"deposit_id,omitempty"`
	EarnedAmount float64   `gorm:"type:decimal(15,2);not null" json:"earned_amount"`
	Status       string    `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (Referral) TableName() string {
	return "blockfortunereferrals"
}

// ReferralWithdrawal is the audit row written when a user sweeps their
// pending referral earnings into their balance.
type ReferralWithdrawal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Count     int       `gorm:"not null" json:"count"`
	Reference string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReferralWithdrawal) TableName() string {
	return "blockfortune_referral_withdrawals"
}

// CommissionAmount computes the referrer's cut of an approved deposit,
// rounded to cents.
func CommissionAmount(depositAmount, affiliateCommission float64) float64 {
	return round2(depositAmount * affiliateCommission / 100)
}
