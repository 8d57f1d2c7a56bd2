package models

import (
	"math"
	"time"
)

// Investment status values.
const (
	InvestmentActive    = "active"
	InvestmentCompleted = "completed"
	InvestmentCancelled = "cancelled"
)

// Investment links a profile to a plan snapshot. Plan fields are copied at
// creation time so later plan edits never change a running investment.
type Investment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	PlanID         uint       `gorm:"not null;index" json:"plan_id"`
	PlanName       string     `gorm:"size:100;not null" json:"plan_name"`
	Amount         float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DailyROI       float64    `gorm:"column:daily_roi;type:decimal(8,4);not null" json:"daily_roi"`
	DurationDays   int        `gorm:"not null" json:"duration_days"`
	ExpectedReturn float64    `gorm:"type:decimal(15,2);not null" json:"expected_return"`
	EarnedSoFar    float64    `gorm:"type:decimal(15,2);not null;default:0" json:"earned_so_far"`
	DaysPaid       int        `gorm:"not null;default:0" json:"days_paid"`
	Reference      string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"reference"`
	StartAt        time.Time  `gorm:"not null" json:"start_at"`
	EndAt          time.Time  `gorm:"not null" json:"end_at"`
	LastAccrualAt  *time.Time `json:"last_accrual_at,omitempty"`
	NextAccrualAt  *time.Time `gorm:"index" json:"next_accrual_at,omitempty"`
	Status         string     `gorm:"size:20;default:'active';index" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

func (Investment) TableName() string {
	return "blockfortune_investments"
}

// ExpectedReturn computes principal plus simple (non-compounding) daily ROI
// over the full duration, rounded to cents.
func ExpectedReturn(amount, dailyROI float64, durationDays int) float64 {
	return round2(amount + amount*dailyROI/100*float64(durationDays))
}

// DailyEarning is the per-day profit for an investment, rounded to cents.
func DailyEarning(amount, dailyROI float64) float64 {
	return round2(amount * dailyROI / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
