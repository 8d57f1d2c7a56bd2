package routes

import (
	"net/http"
	"time"

	"blockfortune/controllers/auth"
	"blockfortune/controllers/users"
	"blockfortune/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers the auth and user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session: 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Forgot Password
	api.Handle("/auth/forgot-password/request-otp", loginLimiter.Middleware(http.HandlerFunc(auth.ForgotPasswordRequestOTPHandler))).Methods(http.MethodPost)
	api.Handle("/auth/forgot-password/resend-otp", loginLimiter.Middleware(http.HandlerFunc(auth.ForgotPasswordResendOTPHandler))).Methods(http.MethodPost)
	api.Handle("/auth/forgot-password/verify-otp", loginLimiter.Middleware(http.HandlerFunc(auth.ForgotPasswordVerifyOTPHandler))).Methods(http.MethodPost)
	api.Handle("/auth/forgot-password/reset-password", loginLimiter.Middleware(http.HandlerFunc(auth.ForgotPasswordResetPasswordHandler))).Methods(http.MethodPost)

	// Account
	api.Handle("/users/info", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler)))).Methods(http.MethodPut)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// KYC
	api.Handle("/users/kyc", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UploadKYCHandler)))).Methods(http.MethodPost)
	api.Handle("/users/kyc", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetKYCStatusHandler)))).Methods(http.MethodGet)

	// Deposits
	api.Handle("/users/deposits", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateDepositHandler)))).Methods(http.MethodPost)
	api.Handle("/users/deposits", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListDepositsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/deposits/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetDepositHandler)))).Methods(http.MethodGet)

	// Withdrawals
	api.Handle("/users/withdrawal", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.WithdrawalHandler)))).Methods(http.MethodPost)
	api.Handle("/users/withdrawal", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListWithdrawalHandler)))).Methods(http.MethodGet)
	api.Handle("/users/withdrawal/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetWithdrawalHandler)))).Methods(http.MethodGet)

	// Investments
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListInvestmentsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetInvestmentHandler)))).Methods(http.MethodGet)

	// Referrals
	api.Handle("/users/referrals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetReferralsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/referrals/withdraw", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.WithdrawReferralEarningsHandler)))).Methods(http.MethodPost)

	// Transaction history
	api.Handle("/users/transaction", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)
	api.Handle("/users/transaction/{type}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)
}
