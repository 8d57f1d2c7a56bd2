package admins

import (
	"net/http"
	"time"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"
)

type TransactionDetail struct {
	Username  string    `json:"username"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers          int64               `json:"total_users"`
	ActiveUsers         int64               `json:"active_users"`
	PendingVerification int64               `json:"pending_verification"`
	TotalDeposits       int64               `json:"total_deposits"`
	PendingDeposits     int64               `json:"pending_deposits"`
	DepositVolume       float64             `json:"deposit_volume"`
	TotalWithdrawals    int64               `json:"total_withdrawals"`
	PendingWithdrawals  int64               `json:"pending_withdrawals"`
	WithdrawalVolume    float64             `json:"withdrawal_volume"`
	ActiveInvestments   int64               `json:"active_investments"`
	InvestedVolume      float64             `json:"invested_volume"`
	TotalBalance        float64             `json:"total_balance"`
	PendingReferral     float64             `json:"pending_referral"`
	LastTransactions    []TransactionDetail `json:"last_transactions"`
}

// GET /v1/admin/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	stats.LastTransactions = make([]TransactionDetail, 0)

	db.Model(&models.Profile{}).Count(&stats.TotalUsers)
	db.Model(&models.Profile{}).Where("status = ?", "Active").Count(&stats.ActiveUsers)
	db.Model(&models.Profile{}).Where("verification_status = ?", models.VerificationPending).Count(&stats.PendingVerification)

	db.Model(&models.Deposit{}).Count(&stats.TotalDeposits)
	db.Model(&models.Deposit{}).Where("status = ?", models.StatusPending).Count(&stats.PendingDeposits)
	db.Model(&models.Deposit{}).Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.DepositVolume)

	db.Model(&models.Withdrawal{}).Count(&stats.TotalWithdrawals)
	db.Model(&models.Withdrawal{}).Where("status = ?", models.StatusPending).Count(&stats.PendingWithdrawals)
	db.Model(&models.Withdrawal{}).Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.WithdrawalVolume)

	db.Model(&models.Investment{}).Where("status = ?", models.InvestmentActive).Count(&stats.ActiveInvestments)
	db.Model(&models.Investment{}).Where("status = ?", models.InvestmentActive).
		Select("COALESCE(SUM(amount),0)").Scan(&stats.InvestedVolume)

	db.Model(&models.Profile{}).Select("COALESCE(SUM(balance),0)").Scan(&stats.TotalBalance)
	db.Model(&models.Referral{}).Where("status = ?", models.ReferralPending).
		Select("COALESCE(SUM(earned_amount),0)").Scan(&stats.PendingReferral)

	rows, err := db.Model(&models.Transaction{}).
		Select("blockfortuneprofile.username, blockfortune_transactions.amount, blockfortune_transactions.transaction_type, blockfortune_transactions.message, blockfortune_transactions.created_at").
		Joins("JOIN blockfortuneprofile ON blockfortune_transactions.user_id = blockfortuneprofile.id").
		Order("blockfortune_transactions.created_at DESC").
		Limit(10).
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var td TransactionDetail
			if scanErr := rows.Scan(&td.Username, &td.Amount, &td.Type, &td.Message, &td.CreatedAt); scanErr == nil {
				stats.LastTransactions = append(stats.LastTransactions, td)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    stats,
	})
}
