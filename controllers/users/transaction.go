package users

import (
	"net/http"
	"strings"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/gorilla/mux"
)

// GET /v1/users/transaction and /v1/users/transaction/{type}
func GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	txType := strings.TrimSpace(mux.Vars(r)["type"])
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB

	countQuery := db.Model(&models.Transaction{}).Where("user_id = ?", uid)
	if txType != "" {
		countQuery = countQuery.Where("transaction_type = ?", txType)
	}
	if search != "" {
		countQuery = countQuery.Where("reference LIKE ?", "%"+search+"%")
	}
	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	var rows []models.Transaction
	query := db.Where("user_id = ?", uid)
	if txType != "" {
		query = query.Where("transaction_type = ?", txType)
	}
	if search != "" {
		query = query.Where("reference LIKE ?", "%"+search+"%")
	}
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    paginated(rows, page, limit, totalRows),
	})
}
