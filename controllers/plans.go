package controllers

import (
	"net/http"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"
)

// GET /v1/plans
//
// Public catalog of active investment plans; the deposit and investment
// forms render from this.
func GetPlansHandler(w http.ResponseWriter, r *http.Request) {
	var plans []models.InvestmentPlan
	if err := database.DB.
		Where("status = ?", models.PlanActive).
		Order("min_amount ASC").
		Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch plans"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    plans,
	})
}
