package users

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/google/uuid"
)

const maxKYCUploadBytes = 8 << 20 // 8 MiB

var allowedKYCExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".pdf": {},
}

// POST /v1/users/kyc
//
// Accepts a multipart document upload, stores it in S3 and flips the account
// verification status to pending for admin review.
func UploadKYCHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if user.VerificationStatus == models.VerificationVerified {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Your account is already verified"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxKYCUploadBytes)
	if err := r.ParseMultipartForm(maxKYCUploadBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Document upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "A document file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedKYCExtensions[ext]; !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only JPG, PNG or PDF documents are accepted"})
		return
	}

	objectKey := fmt.Sprintf("kyc/%d/%s%s", uid, uuid.NewString(), ext)
	if err := utils.UploadToS3(objectKey, file, header.Size); err != nil {
		log.Printf("[kyc] S3 upload error for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not store the document, please try again"})
		return
	}

	if err := db.Model(&models.Profile{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"kyc_document_key":    objectKey,
		"verification_status": models.VerificationPending,
	}).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Document received, verification is now pending review",
		Data: map[string]interface{}{
			"verification_status": models.VerificationPending,
			"submitted_at":        time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// GET /v1/users/kyc
func GetKYCStatusHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var user models.Profile
	if err := database.DB.Select("verification_status, kyc_document_key").First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"verification_status": user.VerificationStatus,
			"document_submitted":  user.KYCDocumentKey != nil,
		},
	})
}
