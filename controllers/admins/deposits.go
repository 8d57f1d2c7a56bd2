package admins

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAlreadyProcessed = errors.New("already_processed")

// GET /v1/admin/deposits
func GetDeposits(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	query := db.Model(&models.Deposit{}).
		Joins("JOIN blockfortuneprofile ON blockfortunedeposits.user_id = blockfortuneprofile.id")
	if status != "" {
		query = query.Where("blockfortunedeposits.status = ?", status)
	}
	if userID != "" {
		query = query.Where("blockfortunedeposits.user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("blockfortunedeposits.reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve deposits"})
		return
	}

	type DepositRow struct {
		models.Deposit
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	var rows []DepositRow
	query.Select("blockfortunedeposits.*, blockfortuneprofile.username, blockfortuneprofile.email").
		Order("blockfortunedeposits.created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&rows)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": rows,
			"pagination": map[string]interface{}{
				"page":       page,
				"limit":      limit,
				"total_rows": totalRows,
			},
		},
	})
}

// POST /v1/admin/deposits/{id}/approve
//
// The pending check is re-run as a conditional update inside the transaction:
// two admins approving the same deposit can never both credit the balance.
func ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid deposit ID"})
		return
	}

	db := database.DB

	var deposit models.Deposit
	if err := db.Preload("Plan").First(&deposit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Deposit not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve deposit"})
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, deposit.UserID).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Deposit{}).
			Where("id = ? AND status = ?", deposit.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":       models.StatusCompleted,
				"processed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		// active_deposit is credited when the money moves into an investment,
		// not here: an approved deposit sits in the spendable balance.
		if err := tx.Model(&models.Profile{}).Where("id = ?", deposit.UserID).
			Update("balance", gorm.Expr("balance + ?", deposit.Amount)).Error; err != nil {
			return err
		}

		return tx.Model(&models.Transaction{}).
			Where("reference = ? AND transaction_type = ?", deposit.Reference, models.TypeDeposit).
			Update("status", models.StatusCompleted).Error
	}); err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			var current models.Deposit
			db.Select("status").First(&current, deposit.ID)
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Deposit already processed",
				Data:    map[string]interface{}{"currentStatus": current.Status},
			})
			return
		}
		log.Printf("[admin-deposit] approve %d error: %v", deposit.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not approve deposit"})
		return
	}

	// Referral fan-out is best-effort: a failure here never rolls back the
	// approval itself.
	payReferralCommission(db, &deposit)

	var user models.Profile
	if err := db.First(&user, deposit.UserID).Error; err == nil {
		utils.SendAsync(user.Email, "Your deposit has been approved", utils.DepositApprovedBody(user.FirstName, deposit.Reference, deposit.Amount))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Deposit approved",
		Data: map[string]interface{}{
			"id":        deposit.ID,
			"reference": deposit.Reference,
			"status":    models.StatusCompleted,
		},
	})
}

type RejectRequest struct {
	Notes string `json:"notes"`
}

// POST /v1/admin/deposits/{id}/reject
func RejectDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid deposit ID"})
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB

	var deposit models.Deposit
	if err := db.First(&deposit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Deposit not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve deposit"})
		return
	}

	notes := strings.TrimSpace(req.Notes)

	if err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.StatusRejected,
			"processed_at": now,
		}
		if notes != "" {
			updates["admin_notes"] = notes
		}
		res := tx.Model(&models.Deposit{}).
			Where("id = ? AND status = ?", deposit.ID, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		return tx.Model(&models.Transaction{}).
			Where("reference = ? AND transaction_type = ?", deposit.Reference, models.TypeDeposit).
			Update("status", models.StatusRejected).Error
	}); err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			var current models.Deposit
			db.Select("status").First(&current, deposit.ID)
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Deposit already processed",
				Data:    map[string]interface{}{"currentStatus": current.Status},
			})
			return
		}
		log.Printf("[admin-deposit] reject %d error: %v", deposit.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not reject deposit"})
		return
	}

	var user models.Profile
	if err := db.First(&user, deposit.UserID).Error; err == nil {
		utils.SendAsync(user.Email, "Your deposit was rejected", utils.DepositRejectedBody(user.FirstName, deposit.Reference, notes))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Deposit rejected",
		Data: map[string]interface{}{
			"id":        deposit.ID,
			"reference": deposit.Reference,
			"status":    models.StatusRejected,
		},
	})
}

// payReferralCommission writes a pending referral row for the depositor's
// referrer. Runs after the approval committed; failures are only logged.
func payReferralCommission(db *gorm.DB, deposit *models.Deposit) {
	var depositor models.Profile
	if err := db.Select("id, referred_by").First(&depositor, deposit.UserID).Error; err != nil || depositor.ReferredBy == nil {
		return
	}

	var plan models.InvestmentPlan
	if deposit.Plan != nil {
		plan = *deposit.Plan
	} else if err := db.First(&plan, deposit.PlanID).Error; err != nil {
		log.Printf("[referral] plan %d lookup failed for deposit %d: %v", deposit.PlanID, deposit.ID, err)
		return
	}
	if plan.AffiliateCommission <= 0 {
		return
	}

	// One commission per deposit
	var count int64
	db.Model(&models.Referral{}).Where("deposit_id = ?", deposit.ID).Count(&count)
	if count > 0 {
		return
	}

	commission := models.CommissionAmount(deposit.Amount, plan.AffiliateCommission)
	depositID := deposit.ID
	ref := models.Referral{
		ReferrerID:   *depositor.ReferredBy,
		RefereeID:    depositor.ID,
		DepositID:    &depositID,
		EarnedAmount: commission,
		Status:       models.ReferralPending,
	}
	if err := db.Create(&ref).Error; err != nil {
		log.Printf("[referral] commission for deposit %d failed: %v", deposit.ID, err)
		return
	}
	log.Printf("[referral] credited %s to user %d for deposit %d", fmt.Sprintf("$%.2f", commission), ref.ReferrerID, deposit.ID)
}
