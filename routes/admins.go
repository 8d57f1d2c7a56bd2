package routes

import (
	"net/http"
	"time"

	"blockfortune/controllers/admins"
	"blockfortune/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.GetDashboardStats)).Methods(http.MethodGet)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.GetUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUser)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}/status", http.HandlerFunc(admins.UpdateUserStatus)).Methods(http.MethodPut)
	adminRouter.Handle("/users/{id:[0-9]+}/kyc", http.HandlerFunc(admins.VerifyUserKYC)).Methods(http.MethodPut)
	adminRouter.Handle("/users/{id:[0-9]+}/balance", http.HandlerFunc(admins.AdjustUserBalance)).Methods(http.MethodPut)

	// Deposit management
	adminRouter.Handle("/deposits", http.HandlerFunc(admins.GetDeposits)).Methods(http.MethodGet)
	adminRouter.Handle("/deposits/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveDeposit)).Methods(http.MethodPost)
	adminRouter.Handle("/deposits/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectDeposit)).Methods(http.MethodPost)

	// Withdrawal management
	adminRouter.Handle("/withdrawals", http.HandlerFunc(admins.GetWithdrawals)).Methods(http.MethodGet)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveWithdrawal)).Methods(http.MethodPost)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectWithdrawal)).Methods(http.MethodPost)

	// Plan management
	adminRouter.Handle("/plans", http.HandlerFunc(admins.GetPlans)).Methods(http.MethodGet)
	adminRouter.Handle("/plans", http.HandlerFunc(admins.CreatePlan)).Methods(http.MethodPost)
	adminRouter.Handle("/plans/{id:[0-9]+}", http.HandlerFunc(admins.UpdatePlan)).Methods(http.MethodPut)
	adminRouter.Handle("/plans/{id:[0-9]+}", http.HandlerFunc(admins.DeletePlan)).Methods(http.MethodDelete)

	// Investment management
	adminRouter.Handle("/investments", http.HandlerFunc(admins.GetInvestments)).Methods(http.MethodGet)

	// Transaction management
	adminRouter.Handle("/transactions", http.HandlerFunc(admins.GetTransactions)).Methods(http.MethodGet)

	// Settings management
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettings)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettings)).Methods(http.MethodPut)
}
