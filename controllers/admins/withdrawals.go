package admins

import (
	"encoding/json"
	"errors"
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

// GET /v1/admin/withdrawals
func GetWithdrawals(w http.ResponseWriter, r *http.Request) {
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
	query := db.Model(&models.Withdrawal{}).
		Joins("JOIN blockfortuneprofile ON blockfortunewithdrawals.user_id = blockfortuneprofile.id")
	if status != "" {
		query = query.Where("blockfortunewithdrawals.status = ?", status)
	}
	if userID != "" {
		query = query.Where("blockfortunewithdrawals.user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("blockfortunewithdrawals.reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	type WithdrawalRow struct {
		models.Withdrawal
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	var rows []WithdrawalRow
	query.Select("blockfortunewithdrawals.*, blockfortuneprofile.username, blockfortuneprofile.email").
		Order("blockfortunewithdrawals.created_at DESC").
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

// POST /v1/admin/withdrawals/{id}/approve
//
// Approval clears the reservation made at request time: pending_withdrawal
// goes down, withdrawal_total goes up, balance is untouched (it was debited
// when the request was made). The status flip is conditional so a second
// approval finds zero rows and reports the current status instead.
func ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	db := database.DB

	var withdrawal models.Withdrawal
	if err := db.First(&withdrawal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal"})
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, withdrawal.UserID).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, models.StatusPending).
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

		if err := tx.Model(&models.Profile{}).Where("id = ?", withdrawal.UserID).Updates(map[string]interface{}{
			"pending_withdrawal": gorm.Expr("pending_withdrawal - ?", withdrawal.Total()),
			"withdrawal_total":   gorm.Expr("withdrawal_total + ?", withdrawal.Amount),
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Transaction{}).
			Where("reference = ? AND transaction_type = ?", withdrawal.Reference, models.TypeWithdrawal).
			Update("status", models.StatusCompleted).Error
	}); err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			var current models.Withdrawal
			db.Select("status").First(&current, withdrawal.ID)
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Withdrawal already processed",
				Data:    map[string]interface{}{"currentStatus": current.Status},
			})
			return
		}
		log.Printf("[admin-withdrawal] approve %d error: %v", withdrawal.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not approve withdrawal"})
		return
	}

	var user models.Profile
	if err := db.First(&user, withdrawal.UserID).Error; err == nil {
		utils.SendAsync(user.Email, "Your withdrawal has been approved", utils.WithdrawalApprovedBody(user.FirstName, withdrawal.Reference, withdrawal.Amount))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal approved",
		Data: map[string]interface{}{
			"id":        withdrawal.ID,
			"reference": withdrawal.Reference,
			"status":    models.StatusCompleted,
		},
	})
}

// POST /v1/admin/withdrawals/{id}/reject
//
// Rejection returns the reserved funds: pending_withdrawal back to balance.
func RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB

	var withdrawal models.Withdrawal
	if err := db.First(&withdrawal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal"})
		return
	}

	notes := strings.TrimSpace(req.Notes)

	if err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, withdrawal.UserID).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.StatusRejected,
			"processed_at": now,
		}
		if notes != "" {
			updates["admin_notes"] = notes
		}
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, models.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", withdrawal.UserID).Updates(map[string]interface{}{
			"pending_withdrawal": gorm.Expr("pending_withdrawal - ?", withdrawal.Total()),
			"balance":            gorm.Expr("balance + ?", withdrawal.Total()),
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Transaction{}).
			Where("reference = ? AND transaction_type = ?", withdrawal.Reference, models.TypeWithdrawal).
			Update("status", models.StatusRejected).Error
	}); err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			var current models.Withdrawal
			db.Select("status").First(&current, withdrawal.ID)
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Withdrawal already processed",
				Data:    map[string]interface{}{"currentStatus": current.Status},
			})
			return
		}
		log.Printf("[admin-withdrawal] reject %d error: %v", withdrawal.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not reject withdrawal"})
		return
	}

	var user models.Profile
	if err := db.First(&user, withdrawal.UserID).Error; err == nil {
		utils.SendAsync(user.Email, "Your withdrawal was rejected", utils.WithdrawalRejectedBody(user.FirstName, withdrawal.Reference, notes, withdrawal.Total()))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal rejected and funds returned",
		Data: map[string]interface{}{
			"id":        withdrawal.ID,
			"reference": withdrawal.Reference,
			"status":    models.StatusRejected,
		},
	})
}
