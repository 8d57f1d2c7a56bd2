package admins

import (
	"net/http"
	"strconv"
	"strings"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"
)

// GET /v1/admin/investments
func GetInvestments(w http.ResponseWriter, r *http.Request) {
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
	query := db.Model(&models.Investment{}).
		Joins("JOIN blockfortuneprofile ON blockfortune_investments.user_id = blockfortuneprofile.id")
	if status != "" {
		query = query.Where("blockfortune_investments.status = ?", status)
	}
	if userID != "" {
		query = query.Where("blockfortune_investments.user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("blockfortune_investments.reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investments"})
		return
	}

	type InvestmentRow struct {
		models.Investment
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	var rows []InvestmentRow
	query.Select("blockfortune_investments.*, blockfortuneprofile.username, blockfortuneprofile.email").
		Order("blockfortune_investments.created_at DESC").
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
