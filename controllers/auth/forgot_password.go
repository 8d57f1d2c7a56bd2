package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"blockfortune/database"
	"blockfortune/middleware"
	"blockfortune/models"
	"blockfortune/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ForgotPasswordRequestOTPRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordVerifyOTPRequest struct {
	OTP       string `json:"otp"`
	RequestID string `json:"request_id"`
}

type ForgotPasswordResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Token           string `json:"token"`
}

// OTPRequest stores password-reset code request information
type OTPRequest struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Email     string    `gorm:"size:191;not null;index"`
	RequestID string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Code      string    `gorm:"size:10;not null"`
	Verified  bool      `gorm:"default:false"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OTPRequest) TableName() string {
	return "otp_requests"
}

// POST /v1/auth/forgot-password/request-otp
func ForgotPasswordRequestOTPHandler(w http.ResponseWriter, r *http.Request) {
	sendPasswordOTP(w, r, "Verification code sent")
}

// POST /v1/auth/forgot-password/resend-otp
func ForgotPasswordResendOTPHandler(w http.ResponseWriter, r *http.Request) {
	sendPasswordOTP(w, r, "Verification code sent again")
}

func sendPasswordOTP(w http.ResponseWriter, r *http.Request, okMessage string) {
	var req ForgotPasswordRequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "A valid email address is required"})
		return
	}

	// Rate limit by IP and by email
	ip := middleware.GetClientIP(r)
	otpLimiter := middleware.GetOTPRateLimiter()

	allowed, waitTime, msg := otpLimiter.CheckIPRateLimit(ip)
	if !allowed {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: msg,
			Data:    map[string]interface{}{"retry_after_seconds": int(waitTime.Seconds())},
		})
		return
	}

	allowed, waitTime, msg = otpLimiter.CheckEmailRateLimit(req.Email)
	if !allowed {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: msg,
			Data:    map[string]interface{}{"retry_after_seconds": int(waitTime.Seconds())},
		})
		return
	}

	db := database.DB

	var user models.Profile
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Do not reveal whether the email exists
			utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
				Success: true,
				Message: okMessage,
				Data: map[string]interface{}{
					"retry_after_seconds": otpLimiter.GetRetryAfterSeconds(req.Email),
				},
			})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	code, err := generateOTPCode()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}
	requestID, err := randomString("abcdefghijklmnopqrstuvwxyz0123456789", 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	// Invalidate older unverified codes for this email
	db.Where("email = ? AND verified = ?", req.Email, false).Delete(&OTPRequest{})

	otpReq := OTPRequest{
		UserID:    user.ID,
		Email:     req.Email,
		RequestID: requestID,
		Code:      code,
		Verified:  false,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := db.Create(&otpReq).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	utils.SendAsync(user.Email, "BlockFortune password reset code", utils.PasswordOTPBody(user.FirstName, code))

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: okMessage,
		Data: map[string]interface{}{
			"request_id":          requestID,
			"email":               req.Email,
			"retry_after_seconds": otpLimiter.GetRetryAfterSeconds(req.Email),
		},
	})
}

// POST /v1/auth/forgot-password/verify-otp
func ForgotPasswordVerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordVerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	if req.OTP == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Verification code is required"})
		return
	}
	if req.RequestID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	db := database.DB

	var otpReq OTPRequest
	if err := db.Where("request_id = ? AND verified = ?", req.RequestID, false).First(&otpReq).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Verification request not found or already used"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	if time.Now().After(otpReq.ExpiresAt) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Verification code has expired"})
		return
	}

	if otpReq.Code != strings.TrimSpace(req.OTP) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Incorrect verification code"})
		return
	}

	otpReq.Verified = true
	if err := db.Save(&otpReq).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	// Short-lived token for the reset step (15 minutes, one-time use)
	resetToken, err := utils.GenerateAccessToken(otpReq.UserID, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	middleware.GetOTPRateLimiter().ResetEmailLimit(otpReq.Email)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Code verified, you can now change your password.",
		Data: map[string]interface{}{
			"token": resetToken,
		},
	})
}

// POST /v1/auth/forgot-password/reset-password
func ForgotPasswordResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	if req.Password == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password is required"})
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password and confirmation do not match"})
		return
	}
	if len(req.Password) < 8 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password must be at least 8 characters"})
		return
	}
	if req.Token == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Token is required"})
		return
	}

	token, claims, err := utils.ValidateAccessToken(req.Token)
	if err != nil || !token.Valid {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Token is invalid or expired"})
		return
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Token is invalid"})
		return
	}

	// One-time use: refuse tokens that were already spent
	if utils.RedisClient != nil {
		res, err := utils.RedisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
		if err == nil && res == "1" {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Token has already been used"})
			return
		}
	} else if database.DB != nil {
		var rec struct {
			ID string `gorm:"primaryKey"`
		}
		if err := database.DB.Table("revoked_tokens").Where("id = ?", jti).First(&rec).Error; err == nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Token has already been used"})
			return
		}
	}

	userIDFloat, ok := claims["id"].(float64)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Token is invalid"})
		return
	}
	userID := uint(userIDFloat)

	db := database.DB

	var user models.Profile
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Account not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user.Password = string(hashedPassword)
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		var ttl time.Duration
		if expRaw, ok := claims["exp"]; ok {
			if v, ok := expRaw.(float64); ok {
				ttl = time.Until(time.Unix(int64(v), 0))
			}
		}
		if ttl < 0 {
			ttl = 0
		}
		// Revocation is best-effort, do not fail the transaction
		_ = utils.RevokeJTI(jti, ttl)

		// Invalidate all sessions after a password reset
		return tx.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("revoked", true).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong. Please try again later."})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Password changed, you will be redirected to the login page shortly",
		Data:    nil,
	})
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
