package models

import "time"

// Plan status values.
const (
	PlanActive   = "Active"
	PlanInactive = "Inactive"
)

// InvestmentPlan is a static catalog entry. Deposits and investments validate
// their amounts against the plan bounds; affiliate commission is the percent
// of a referred deposit credited to the referrer on approval.
type InvestmentPlan struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"size:100;not null" json:"name"`
	MinAmount           float64   `gorm:"type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount           float64   `gorm:"type:decimal(15,2);not null" json:"max_amount"`
	DailyROI            float64   `gorm:"column:daily_roi;type:decimal(8,4);not null" json:"daily_roi"`
	DurationDays        int       `gorm:"not null" json:"duration_days"`
	AffiliateCommission float64   `gorm:"type:decimal(8,4);default:0" json:"affiliate_commission"`
	Status              string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (InvestmentPlan) TableName() string {
	return "blockfortune_investment_plans"
}

// AllowsAmount checks the plan bounds.
func (p *InvestmentPlan) AllowsAmount(amount float64) bool {
	return amount >= p.MinAmount && amount <= p.MaxAmount
}
