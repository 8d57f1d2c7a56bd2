package users

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

type CreateInvestmentRequest struct {
	PlanID uint    `json:"plan_id"`
	Amount float64 `json:"amount"`
}

// POST /v1/users/investments
//
// Funds the investment from the account balance. The debit and the insert
// happen in a single transaction under a profile row lock, so a failed insert
// never leaves the balance short.
func CreateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var plan models.InvestmentPlan
	if err := db.Where("id = ? AND status = ?", req.PlanID, models.PlanActive).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Investment plan not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error, please try again"})
		return
	}

	if !plan.AllowsAmount(req.Amount) {
		msg := fmt.Sprintf("Amount for the %s plan must be between $%.2f and $%.2f", plan.Name, plan.MinAmount, plan.MaxAmount)
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	reference := utils.GenerateReference(utils.RefInvestment, uid)
	now := time.Now()
	next := now.Add(24 * time.Hour)

	inv := models.Investment{
		UserID:         uid,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		Amount:         req.Amount,
		DailyROI:       plan.DailyROI,
		DurationDays:   plan.DurationDays,
		ExpectedReturn: models.ExpectedReturn(req.Amount, plan.DailyROI, plan.DurationDays),
		Reference:      reference,
		StartAt:        now,
		EndAt:          now.AddDate(0, 0, plan.DurationDays),
		NextAccrualAt:  &next,
		Status:         models.InvestmentActive,
	}

	var errInsufficientBalance = errors.New("insufficient_balance")

	if err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, uid).Error; err != nil {
			return err
		}
		if locked.Balance < req.Amount {
			return errInsufficientBalance
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"balance":        gorm.Expr("balance - ?", req.Amount),
			"active_deposit": gorm.Expr("active_deposit + ?", req.Amount),
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Investment in %s plan", plan.Name)
		trx := models.Transaction{
			UserID:          uid,
			Amount:          inv.Amount,
			Charge:          0,
			Reference:       reference,
			TransactionFlow: models.FlowDebit,
			TransactionType: models.TypeInvestment,
			Message:         &msg,
			Status:          models.StatusCompleted,
		}
		return tx.Create(&trx).Error
	}); err != nil {
		if errors.Is(err, errInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance"})
			return
		}
		log.Printf("[investment] DB transaction error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not create investment"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investment created",
		Data: map[string]interface{}{
			"reference":       inv.Reference,
			"plan":            inv.PlanName,
			"amount":          inv.Amount,
			"daily_roi":       inv.DailyROI,
			"duration_days":   inv.DurationDays,
			"expected_return": inv.ExpectedReturn,
			"start_at":        inv.StartAt.UTC().Format(time.RFC3339),
			"end_at":          inv.EndAt.UTC().Format(time.RFC3339),
			"status":          inv.Status,
		},
	})
}

// GET /v1/users/investments
func ListInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	db := database.DB

	countQuery := db.Model(&models.Investment{}).Where("user_id = ?", uid)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investments"})
		return
	}

	var rows []models.Investment
	query := db.Where("user_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investments"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    paginated(rows, page, limit, totalRows),
	})
}

// GET /v1/users/investments/{id}
func GetInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid ID"})
		return
	}

	var row models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id64), uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: row})
}
