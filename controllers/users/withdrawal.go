package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	CryptoType    string  `json:"crypto_type"`
	WalletAddress string  `json:"wallet_address"`
}

// POST /v1/users/withdrawal
//
// The requested amount plus network fee is moved from balance into
// pending_withdrawal inside the transaction, so a second request can never
// spend the same funds. Rejection restores the reservation.
func WithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalRequest
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

	var user models.Profile
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Account not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error, please try again"})
		return
	}

	if strings.ToLower(user.Status) != "active" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Your account has been suspended, please contact support"})
		return
	}

	req.CryptoType = strings.ToUpper(strings.TrimSpace(req.CryptoType))
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)

	if !utils.SupportedCrypto(req.CryptoType) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported cryptocurrency"})
		return
	}
	if err := utils.ValidateWalletAddress(req.CryptoType, req.WalletAddress); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	// Load settings
	setting := loadSettings(db)

	minWithdraw := setting.MinWithdraw
	if minWithdraw <= 0 {
		minWithdraw = 50
	}
	if req.Amount < minWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: fmt.Sprintf("Minimum withdrawal amount is $%.0f", minWithdraw)})
		return
	}
	if setting.MaxWithdraw > 0 && req.Amount > setting.MaxWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: fmt.Sprintf("Maximum withdrawal amount is $%.0f", setting.MaxWithdraw)})
		return
	}

	fee := utils.RoundCents(req.Amount * setting.NetworkFeePercent / 100.0)
	total := utils.RoundCents(req.Amount + fee)
	reference := utils.GenerateReference(utils.RefWithdrawal, uid)

	var errInsufficientBalance = errors.New("insufficient_balance")

	var wd models.Withdrawal
	if err := db.Transaction(func(tx *gorm.DB) error {
		// Lock profile row and validate balance
		var locked models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, uid).Error; err != nil {
			return err
		}
		if locked.Balance < total {
			return errInsufficientBalance
		}

		// Reserve funds: balance -> pending_withdrawal
		if err := tx.Model(&models.Profile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"balance":            gorm.Expr("balance - ?", total),
			"pending_withdrawal": gorm.Expr("pending_withdrawal + ?", total),
		}).Error; err != nil {
			return err
		}

		wd = models.Withdrawal{
			UserID:        uid,
			Amount:        req.Amount,
			NetworkFee:    fee,
			CryptoType:    req.CryptoType,
			WalletAddress: req.WalletAddress,
			Reference:     reference,
			Status:        models.StatusPending,
		}
		if err := tx.Create(&wd).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Withdrawal of %s to %s", wd.CryptoType, maskWalletAddress(wd.WalletAddress))
		trx := models.Transaction{
			UserID:          uid,
			Amount:          req.Amount,
			Charge:          fee,
			Reference:       reference,
			TransactionFlow: models.FlowDebit,
			TransactionType: models.TypeWithdrawal,
			Message:         &msg,
			Status:          models.StatusPending,
		}
		return tx.Create(&trx).Error
	}); err != nil {
		if errors.Is(err, errInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance"})
			return
		}
		log.Printf("[withdrawal] DB transaction error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error, please try again"})
		return
	}

	utils.SendAsync(utils.AdminEmail(), "New withdrawal awaiting approval", utils.WithdrawalRequestedBody(user.Username, reference, wd.CryptoType, wd.Amount, wd.NetworkFee))

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted for review",
		Data: map[string]interface{}{
			"reference":      wd.Reference,
			"amount":         wd.Amount,
			"network_fee":    wd.NetworkFee,
			"crypto_type":    wd.CryptoType,
			"wallet_address": maskWalletAddress(wd.WalletAddress),
			"status":         wd.Status,
		},
	})
}

// GET /v1/users/withdrawal
func ListWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	db := database.DB

	countQuery := db.Model(&models.Withdrawal{}).Where("user_id = ?", uid)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	var rows []models.Withdrawal
	query := db.Where("user_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    paginated(rows, page, limit, totalRows),
	})
}

// GET /v1/users/withdrawal/{id}
func GetWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
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

	var row models.Withdrawal
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id64), uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: row})
}

// loadSettings returns the settings row, falling back to defaults when the
// table is empty.
func loadSettings(db *gorm.DB) models.Setting {
	var setting models.Setting
	if err := db.Take(&setting).Error; err != nil {
		return models.Setting{MinWithdraw: 50, NetworkFeePercent: 0}
	}
	return setting
}

func maskWalletAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
