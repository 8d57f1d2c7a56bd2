package admins

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"blockfortune/database"
	"blockfortune/middleware"
	"blockfortune/models"
	"blockfortune/utils"
)

type PlanRequest struct {
	Name                string  `json:"name" validate:"required,nameok"`
	MinAmount           float64 `json:"min_amount"`
	MaxAmount           float64 `json:"max_amount"`
	DailyROI            float64 `json:"daily_roi"`
	DurationDays        int     `json:"duration_days"`
	AffiliateCommission float64 `json:"affiliate_commission"`
	Status              string  `json:"status"`
}

func (p *PlanRequest) validateBounds() string {
	if p.MinAmount <= 0 || p.MaxAmount <= 0 {
		return "Plan amounts must be greater than zero"
	}
	if p.MaxAmount < p.MinAmount {
		return "Maximum amount must be greater than or equal to minimum amount"
	}
	if p.DailyROI <= 0 || p.DailyROI > 100 {
		return "Daily ROI must be between 0 and 100 percent"
	}
	if p.DurationDays <= 0 {
		return "Duration must be at least one day"
	}
	if p.AffiliateCommission < 0 || p.AffiliateCommission > 100 {
		return "Affiliate commission must be between 0 and 100 percent"
	}
	if p.Status != "" && p.Status != models.PlanActive && p.Status != models.PlanInactive {
		return "Status must be Active or Inactive"
	}
	return ""
}

// GET /v1/admin/plans
func GetPlans(w http.ResponseWriter, r *http.Request) {
	var plans []models.InvestmentPlan
	query := database.DB.Order("min_amount ASC")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to fetch plans",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    plans,
	})
}

// POST /v1/admin/plans
func CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	if msg := req.validateBounds(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: msg,
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.PlanActive
	}

	plan := models.InvestmentPlan{
		Name:                req.Name,
		MinAmount:           req.MinAmount,
		MaxAmount:           req.MaxAmount,
		DailyROI:            req.DailyROI,
		DurationDays:        req.DurationDays,
		AffiliateCommission: req.AffiliateCommission,
		Status:              status,
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to create plan",
		})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Plan created",
		Data:    plan,
	})
}

// PUT /v1/admin/plans/{id}
func UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || planID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid plan id",
		})
		return
	}

	var req PlanRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	if msg := req.validateBounds(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: msg,
		})
		return
	}

	var plan models.InvestmentPlan
	if err := database.DB.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{
				Success: false,
				Message: "Plan not found",
			})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to fetch plan",
		})
		return
	}

	plan.Name = req.Name
	plan.MinAmount = req.MinAmount
	plan.MaxAmount = req.MaxAmount
	plan.DailyROI = req.DailyROI
	plan.DurationDays = req.DurationDays
	plan.AffiliateCommission = req.AffiliateCommission
	if req.Status != "" {
		plan.Status = req.Status
	}

	// Running investments keep their snapshotted plan terms; changes here
	// only affect new deposits and investments.
	if err := database.DB.Save(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to update plan",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan updated",
		Data:    plan,
	})
}

// DELETE /v1/admin/plans/{id}
//
// Plans are never hard-deleted once referenced by deposits or investments;
// they are deactivated instead so history keeps resolving.
func DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || planID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid plan id",
		})
		return
	}

	var plan models.InvestmentPlan
	if err := database.DB.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{
				Success: false,
				Message: "Plan not found",
			})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to fetch plan",
		})
		return
	}

	var referenced int64
	database.DB.Model(&models.Deposit{}).Where("plan_id = ?", plan.ID).Count(&referenced)
	if referenced == 0 {
		database.DB.Model(&models.Investment{}).Where("plan_id = ?", plan.ID).Count(&referenced)
	}

	if referenced > 0 {
		if err := database.DB.Model(&plan).Update("status", models.PlanInactive).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
				Success: false,
				Message: "Failed to deactivate plan",
			})
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Plan has existing activity and was deactivated instead",
		})
		return
	}

	if err := database.DB.Delete(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to delete plan",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan deleted",
	})
}
