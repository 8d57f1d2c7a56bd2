package admins

import (
	"encoding/json"
	"errors"
	"net/http"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"gorm.io/gorm"
)

// GET /v1/admin/settings
func GetSettings(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.Take(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Settings not initialized"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch settings"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: setting})
}

type UpdateSettingsRequest struct {
	Name              *string  `json:"name"`
	Company           *string  `json:"company"`
	AdminEmail        *string  `json:"admin_email"`
	SupportEmail      *string  `json:"support_email"`
	MinWithdraw       *float64 `json:"min_withdraw"`
	MaxWithdraw       *float64 `json:"max_withdraw"`
	NetworkFeePercent *float64 `json:"network_fee_percent"`
	Maintenance       *bool    `json:"maintenance"`
	ClosedRegister    *bool    `json:"closed_register"`
}

// PUT /v1/admin/settings
//
// Partial update: only fields present in the body are written.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.AdminEmail != nil {
		updates["admin_email"] = *req.AdminEmail
	}
	if req.SupportEmail != nil {
		updates["support_email"] = *req.SupportEmail
	}
	if req.MinWithdraw != nil {
		if *req.MinWithdraw < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Minimum withdrawal cannot be negative"})
			return
		}
		updates["min_withdraw"] = *req.MinWithdraw
	}
	if req.MaxWithdraw != nil {
		updates["max_withdraw"] = *req.MaxWithdraw
	}
	if req.NetworkFeePercent != nil {
		if *req.NetworkFeePercent < 0 || *req.NetworkFeePercent > 100 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Network fee must be between 0 and 100 percent"})
			return
		}
		updates["network_fee_percent"] = *req.NetworkFeePercent
	}
	if req.Maintenance != nil {
		updates["maintenance"] = *req.Maintenance
	}
	if req.ClosedRegister != nil {
		updates["closed_register"] = *req.ClosedRegister
	}

	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "No settings provided"})
		return
	}

	var setting models.Setting
	if err := database.DB.Take(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to fetch settings"})
		return
	}
	if err := database.DB.Model(&setting).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update settings"})
		return
	}

	database.DB.Take(&setting)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated", Data: setting})
}
