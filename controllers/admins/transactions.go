package admins

import (
	"net/http"
	"strconv"
	"strings"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"
)

// GET /v1/admin/transactions
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txType := r.URL.Query().Get("type")
	flow := r.URL.Query().Get("flow")
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
	query := db.Model(&models.Transaction{}).
		Joins("JOIN blockfortuneprofile ON blockfortune_transactions.user_id = blockfortuneprofile.id")
	if txType != "" {
		query = query.Where("blockfortune_transactions.transaction_type = ?", txType)
	}
	if flow != "" {
		query = query.Where("blockfortune_transactions.transaction_flow = ?", flow)
	}
	if status != "" {
		query = query.Where("blockfortune_transactions.status = ?", status)
	}
	if userID != "" {
		query = query.Where("blockfortune_transactions.user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("blockfortune_transactions.reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	type TransactionRow struct {
		models.Transaction
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	var rows []TransactionRow
	query.Select("blockfortune_transactions.*, blockfortuneprofile.username, blockfortuneprofile.email").
		Order("blockfortune_transactions.created_at DESC").
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
