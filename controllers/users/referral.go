package users

import (
	"errors"
	"log"
	"net/http"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GET /v1/users/referrals
func GetReferralsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.Select("referral_code").First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var pendingTotal, paidTotal float64
	db.Model(&models.Referral{}).Where("referrer_id = ? AND status = ?", uid, models.ReferralPending).
		Select("COALESCE(SUM(earned_amount),0)").Scan(&pendingTotal)
	db.Model(&models.Referral{}).Where("referrer_id = ? AND status = ?", uid, models.ReferralPaid).
		Select("COALESCE(SUM(earned_amount),0)").Scan(&paidTotal)

	var referrals []models.Referral
	if err := db.Where("referrer_id = ?", uid).Order("id DESC").Limit(100).Find(&referrals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve referrals"})
		return
	}

	// Referred accounts, without exposing anything beyond the username
	type referee struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	var referees []referee
	db.Model(&models.Profile{}).Select("id, username").Where("referred_by = ?", uid).Order("id DESC").Scan(&referees)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"referral_code":  user.ReferralCode,
			"pending_total":  utils.RoundCents(pendingTotal),
			"paid_total":     utils.RoundCents(paidTotal),
			"referrals":      referrals,
			"referred_users": referees,
		},
	})
}

// POST /v1/users/referrals/withdraw
//
// Sweeps every pending referral commission into the balance. The rows are
// locked and flipped to paid in the same transaction that credits the
// balance, so the credited amount always equals the flipped sum.
func WithdrawReferralEarningsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	reference := utils.GenerateReference(utils.RefReferral, uid)

	var errNothingToWithdraw = errors.New("nothing_to_withdraw")

	var total float64
	var count int
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.Profile{}, uid).Error; err != nil {
			return err
		}

		var pending []models.Referral
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("referrer_id = ? AND status = ?", uid, models.ReferralPending).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return errNothingToWithdraw
		}

		ids := make([]uint, 0, len(pending))
		for _, ref := range pending {
			total += ref.EarnedAmount
			ids = append(ids, ref.ID)
		}
		total = utils.RoundCents(total)
		count = len(pending)

		res := tx.Model(&models.Referral{}).
			Where("id IN ? AND status = ?", ids, models.ReferralPending).
			Update("status", models.ReferralPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(count) {
			return errors.New("referral rows changed concurrently")
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", total),
			"earned_total": gorm.Expr("earned_total + ?", total),
		}).Error; err != nil {
			return err
		}

		rw := models.ReferralWithdrawal{
			UserID:    uid,
			Amount:    total,
			Count:     count,
			Reference: reference,
		}
		if err := tx.Create(&rw).Error; err != nil {
			return err
		}

		msg := "Referral earnings withdrawal"
		trx := models.Transaction{
			UserID:          uid,
			Amount:          total,
			Charge:          0,
			Reference:       reference,
			TransactionFlow: models.FlowCredit,
			TransactionType: models.TypeReferralEarning,
			Message:         &msg,
			Status:          models.StatusCompleted,
		}
		return tx.Create(&trx).Error
	}); err != nil {
		if errors.Is(err, errNothingToWithdraw) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "No pending referral earnings to withdraw"})
			return
		}
		log.Printf("[referral] withdraw earnings error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Referral earnings credited to your balance",
		Data: map[string]interface{}{
			"reference": reference,
			"amount":    total,
			"count":     count,
		},
	})
}
