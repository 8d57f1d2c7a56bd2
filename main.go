package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blockfortune/controllers/auth"
	"blockfortune/database"
	"blockfortune/middleware"
	"blockfortune/models"
	"blockfortune/routes"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load .env if present, without overwriting already-set environment
	// variables.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	requiredEnvVars := []string{"DB_HOST", "DB_USER", "DB_PASS", "DB_NAME", "JWT_SECRET"}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate only in development to avoid accidental production schema
	// changes.
	if strings.ToLower(os.Getenv("ENV")) == "development" {
		log.Println("Running in development mode - performing auto-migration")
		if err := database.RunMigrationsWithBackup(db,
			&models.Admin{},
			&models.RefreshToken{},
			&models.RevokedToken{},
			&models.Profile{},
			&models.InvestmentPlan{},
			&models.Deposit{},
			&models.Withdrawal{},
			&models.Investment{},
			&models.Referral{},
			&models.ReferralWithdrawal{},
			&models.Transaction{},
			&models.Setting{},
			&auth.OTPRequest{},
		); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		seedSettings(db)
		log.Println("Auto-migration completed successfully")
	} else {
		log.Println("Running in production mode - skipping auto-migration")
	}

	router := routes.InitRouter()

	// Global middleware, outermost first:
	// Logging -> Security headers -> Request ID -> Max Body -> Timeout ->
	// Recovery -> Metrics -> Suspicious Activity
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(
							middleware.MetricsMiddleware(
								middleware.SuspiciousActivityMiddleware(router),
							),
						),
					),
				),
			),
		),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// seedSettings inserts the default settings row when the table is empty.
func seedSettings(db *gorm.DB) {
	var setting models.Setting
	err := db.First(&setting).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[settings] lookup failed: %v", err)
		return
	}
	setting = models.Setting{
		Name:              "BlockFortune",
		Company:           "BlockFortune Ltd",
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		MinWithdraw:       50,
		MaxWithdraw:       100000,
		NetworkFeePercent: 2,
		Maintenance:       false,
		ClosedRegister:    false,
		SupportEmail:      os.Getenv("SUPPORT_EMAIL"),
	}
	if err := db.Create(&setting).Error; err != nil {
		log.Printf("[settings] seed failed: %v", err)
	}
}
