package users

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"blockfortune/database"
	"blockfortune/middleware"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CreateDepositRequest struct {
	PlanID        uint    `json:"plan_id"`
	Amount        float64 `json:"amount"`
	CryptoType    string  `json:"crypto_type"`
	WalletAddress string  `json:"wallet_address"`
	Narration     string  `json:"narration"`
}

// POST /v1/users/deposits
func CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateDepositRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	req.CryptoType = strings.ToUpper(strings.TrimSpace(req.CryptoType))
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)

	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Deposit amount must be greater than zero"})
		return
	}
	if !utils.SupportedCrypto(req.CryptoType) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported cryptocurrency"})
		return
	}
	if err := utils.ValidateWalletAddress(req.CryptoType, req.WalletAddress); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	db := database.DB

	var plan models.InvestmentPlan
	if err := db.Where("id = ? AND status = ?", req.PlanID, models.PlanActive).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Investment plan not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if !plan.AllowsAmount(req.Amount) {
		msg := fmt.Sprintf("Amount for the %s plan must be between $%.2f and $%.2f", plan.Name, plan.MinAmount, plan.MaxAmount)
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	var user models.Profile
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	reference := utils.GenerateReference(utils.RefDeposit, uid)

	dep := models.Deposit{
		UserID:        uid,
		PlanID:        plan.ID,
		Amount:        req.Amount,
		CryptoType:    req.CryptoType,
		WalletAddress: req.WalletAddress,
		Reference:     reference,
		Status:        models.StatusPending,
	}
	dep.Narration = utils.StringPtr(strings.TrimSpace(req.Narration))

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dep).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Deposit into %s plan", plan.Name)
		trx := models.Transaction{
			UserID:          uid,
			Amount:          dep.Amount,
			Charge:          0,
			Reference:       reference,
			TransactionFlow: models.FlowCredit,
			TransactionType: models.TypeDeposit,
			Message:         &msg,
			Status:          models.StatusPending,
		}
		return tx.Create(&trx).Error
	}); err != nil {
		log.Printf("[deposit] DB create error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not create deposit, please try again"})
		return
	}

	// Notify the back office, never block on it
	utils.SendAsync(utils.AdminEmail(), "New deposit awaiting approval", utils.DepositRequestedBody(user.Username, reference, dep.CryptoType, dep.Amount))

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deposit submitted and awaiting confirmation",
		Data: map[string]interface{}{
			"reference":   dep.Reference,
			"amount":      dep.Amount,
			"crypto_type": dep.CryptoType,
			"plan":        plan.Name,
			"status":      dep.Status,
		},
	})
}

// GET /v1/users/deposits
func ListDepositsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	db := database.DB

	countQuery := db.Model(&models.Deposit{}).Where("user_id = ?", uid)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve deposits"})
		return
	}

	var rows []models.Deposit
	query := db.Preload("Plan").Where("user_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve deposits"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    paginated(rows, page, limit, totalRows),
	})
}

// GET /v1/users/deposits/{id}
func GetDepositHandler(w http.ResponseWriter, r *http.Request) {
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

	var row models.Deposit
	if err := database.DB.Preload("Plan").Where("id = ? AND user_id = ?", uint(id64), uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Deposit not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: row})
}

// parsePagination reads page/limit query params with the usual defaults.
func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func paginated(data interface{}, page, limit int, totalRows int64) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"pagination": map[string]interface{}{
			"page":        page,
			"limit":       limit,
			"total_rows":  totalRows,
			"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
		},
	}
}
