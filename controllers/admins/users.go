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

// GET /v1/admin/users
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")
	verification := r.URL.Query().Get("verification_status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	query := db.Model(&models.Profile{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR username LIKE ? OR referral_code LIKE ?", like, like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if verification != "" {
		query = query.Where("verification_status = ?", verification)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

	var rows []models.Profile
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

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

// GET /v1/admin/users/{id}
func GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user ID"})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var depositTotal, withdrawalTotal float64
	db.Model(&models.Deposit{}).Where("user_id = ? AND status = ?", user.ID, models.StatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&depositTotal)
	db.Model(&models.Withdrawal{}).Where("user_id = ? AND status = ?", user.ID, models.StatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&withdrawalTotal)

	var investments []models.Investment
	db.Where("user_id = ?", user.ID).Order("id DESC").Limit(20).Find(&investments)

	// Document link is signed and short-lived, only produced when one exists
	var documentURL string
	if user.KYCDocumentKey != nil {
		if url, err := utils.GenerateSignedURL(*user.KYCDocumentKey, 15*time.Minute); err == nil {
			documentURL = url
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":                user,
			"deposit_total":       depositTotal,
			"withdrawal_total":    withdrawalTotal,
			"investments":         investments,
			"kyc_document_url":    documentURL,
			"verification_status": user.VerificationStatus,
		},
	})
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// PUT /v1/admin/users/{id}/status
func UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user ID"})
		return
	}

	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	status := strings.TrimSpace(req.Status)
	if status != "Active" && status != "Suspended" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Status must be Active or Suspended"})
		return
	}

	res := database.DB.Model(&models.Profile{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not update user"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	// Suspension also kills live sessions
	if status == "Suspended" {
		database.DB.Model(&models.RefreshToken{}).Where("user_id = ?", id).Update("revoked", true)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User status updated", Data: map[string]interface{}{"id": id, "status": status}})
}

type VerifyKYCRequest struct {
	Approve bool `json:"approve"`
}

// PUT /v1/admin/users/{id}/kyc
func VerifyUserKYC(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user ID"})
		return
	}

	var req VerifyKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if user.VerificationStatus != models.VerificationPending {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "User has no verification pending review"})
		return
	}

	newStatus := models.VerificationVerified
	updates := map[string]interface{}{"verification_status": newStatus}
	if !req.Approve {
		newStatus = models.VerificationUnverified
		updates["verification_status"] = newStatus
		updates["kyc_document_key"] = nil
	}
	if err := db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not update verification status"})
		return
	}

	// Denied documents are removed from storage so the user can re-submit.
	if !req.Approve {
		if key := utils.GetStringValue(user.KYCDocumentKey); key != "" {
			go func() {
				if err := utils.DeleteFromS3(key); err != nil {
					log.Printf("[admin-users] delete kyc document %s: %v", key, err)
				}
			}()
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Verification status updated",
		Data:    map[string]interface{}{"id": id, "verification_status": newStatus},
	})
}

type BalanceAdjustmentRequest struct {
	Amount float64 `json:"amount"`
	Flow   string  `json:"flow"`
	Reason string  `json:"reason"`
}

// PUT /v1/admin/users/{id}/balance
//
// Manual credit or debit, always paired with a ledger row.
func AdjustUserBalance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user ID"})
		return
	}

	var req BalanceAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be greater than zero"})
		return
	}
	flow := strings.ToLower(strings.TrimSpace(req.Flow))
	if flow != models.FlowCredit && flow != models.FlowDebit {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Flow must be credit or debit"})
		return
	}

	db := database.DB
	uid := uint(id)
	reference := utils.GenerateReference(utils.RefAdjustment, uid)

	var errInsufficientBalance = errors.New("insufficient_balance")

	if err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, uid).Error; err != nil {
			return err
		}
		if flow == models.FlowDebit && locked.Balance < req.Amount {
			return errInsufficientBalance
		}

		expr := gorm.Expr("balance + ?", req.Amount)
		if flow == models.FlowDebit {
			expr = gorm.Expr("balance - ?", req.Amount)
		}
		if err := tx.Model(&models.Profile{}).Where("id = ?", uid).Update("balance", expr).Error; err != nil {
			return err
		}

		msg := strings.TrimSpace(req.Reason)
		if msg == "" {
			msg = fmt.Sprintf("Manual balance %s by admin", flow)
		}
		trx := models.Transaction{
			UserID:          uid,
			Amount:          req.Amount,
			Charge:          0,
			Reference:       reference,
			TransactionFlow: flow,
			TransactionType: models.TypeBalanceAdjustment,
			Message:         &msg,
			Status:          models.StatusCompleted,
		}
		return tx.Create(&trx).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		if errors.Is(err, errInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance for debit"})
			return
		}
		log.Printf("[admin-users] balance adjustment for %d error: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not adjust balance"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Balance adjusted",
		Data: map[string]interface{}{
			"user_id":   uid,
			"amount":    req.Amount,
			"flow":      flow,
			"reference": reference,
		},
	})
}
