package models

import "time"

type Profile struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Username           string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	FirstName          string    `gorm:"size:100;not null" json:"first_name"`
	LastName           string    `gorm:"size:100;not null" json:"last_name"`
	Password           string    `gorm:"size:255;not null" json:"-"`
	Balance            float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	PendingWithdrawal  float64   `gorm:"type:decimal(15,2);default:0" json:"pending_withdrawal"`
	ActiveDeposit      float64   `gorm:"type:decimal(15,2);default:0" json:"active_deposit"`
	WithdrawalTotal    float64   `gorm:"type:decimal(15,2);default:0" json:"withdrawal_total"`
	EarnedTotal        float64   `gorm:"type:decimal(15,2);default:0" json:"earned_total"`
	ReferralCode       string    `gorm:"size:20;uniqueIndex;not null" json:"referral_code"`
	ReferredBy         *uint     `gorm:"column:referred_by" json:"referred_by"`
	VerificationStatus string    `gorm:"size:20;default:'unverified'" json:"verification_status"`
	KYCDocumentKey     *string   `gorm:"column:kyc_document_key;type:varchar(255)" json:"-"`
	Status             string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}

func (Profile) TableName() string {
	return "blockfortuneprofile"
}

// Verification states for KYC review.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
)
