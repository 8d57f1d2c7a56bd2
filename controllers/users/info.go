package users

import (
	"net/http"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"
)

// GET /v1/users/info
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var activeInvestments int64
	db.Model(&models.Investment{}).Where("user_id = ? AND status = ?", uid, models.InvestmentActive).Count(&activeInvestments)

	var pendingReferral float64
	db.Model(&models.Referral{}).Where("referrer_id = ? AND status = ?", uid, models.ReferralPending).
		Select("COALESCE(SUM(earned_amount),0)").Scan(&pendingReferral)

	var pendingDeposits int64
	db.Model(&models.Deposit{}).Where("user_id = ? AND status = ?", uid, models.StatusPending).Count(&pendingDeposits)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":                  user.ID,
				"email":               user.Email,
				"username":            user.Username,
				"first_name":          user.FirstName,
				"last_name":           user.LastName,
				"referral_code":       user.ReferralCode,
				"balance":             user.Balance,
				"pending_withdrawal":  user.PendingWithdrawal,
				"active_deposit":      user.ActiveDeposit,
				"withdrawal_total":    user.WithdrawalTotal,
				"earned_total":        user.EarnedTotal,
				"verification_status": user.VerificationStatus,
				"status":              user.Status,
			},
			"active_investments":       activeInvestments,
			"pending_deposits":         pendingDeposits,
			"pending_referral_earning": utils.RoundCents(pendingReferral),
		},
	})
}
