package users

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// POST /v1/cron/daily-returns
//
// Accrues one day of ROI for every active investment whose next accrual time
// has passed. Each investment is processed in its own transaction so a single
// failure never blocks the rest of the batch.
func CronDailyReturnsHandler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-CRON-KEY")
	if key == "" || key != os.Getenv("CRON_KEY") {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	now := time.Now()

	var due []models.Investment
	if err := db.Where("status = ? AND next_accrual_at IS NOT NULL AND next_accrual_at <= ? AND days_paid < duration_days", models.InvestmentActive, now).
		Order("id ASC").Limit(500).Find(&due).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	processed := 0
	completed := 0
	for i := range due {
		inv := due[i]
		err := db.Transaction(func(tx *gorm.DB) error {
			// Re-read under lock so a concurrent cron run cannot double-pay
			var current models.Investment
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, inv.ID).Error; err != nil {
				return err
			}
			if current.Status != models.InvestmentActive || current.DaysPaid >= current.DurationDays {
				return nil
			}
			if current.NextAccrualAt == nil || current.NextAccrualAt.After(now) {
				return nil
			}

			var user models.Profile
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, current.UserID).Error; err != nil {
				return err
			}

			earning := models.DailyEarning(current.Amount, current.DailyROI)
			paid := current.DaysPaid + 1

			if err := tx.Model(&models.Profile{}).Where("id = ?", current.UserID).Updates(map[string]interface{}{
				"balance":      gorm.Expr("balance + ?", earning),
				"earned_total": gorm.Expr("earned_total + ?", earning),
			}).Error; err != nil {
				return err
			}

			msg := fmt.Sprintf("Daily return on %s plan (day %d of %d)", current.PlanName, paid, current.DurationDays)
			trx := models.Transaction{
				UserID:          current.UserID,
				Amount:          earning,
				Charge:          0,
				Reference:       current.Reference,
				TransactionFlow: models.FlowCredit,
				TransactionType: models.TypeDailyEarning,
				Message:         &msg,
				Status:          models.StatusCompleted,
			}
			if err := tx.Create(&trx).Error; err != nil {
				return err
			}

			accrualTime := now
			updates := map[string]interface{}{
				"days_paid":       paid,
				"earned_so_far":   utils.RoundCents(current.EarnedSoFar + earning),
				"last_accrual_at": accrualTime,
				"next_accrual_at": accrualTime.Add(24 * time.Hour),
			}

			if paid >= current.DurationDays {
				// Duration served: return the principal and close out
				updates["status"] = models.InvestmentCompleted
				updates["next_accrual_at"] = nil

				if err := tx.Model(&models.Profile{}).Where("id = ?", current.UserID).Updates(map[string]interface{}{
					"balance":        gorm.Expr("balance + ?", current.Amount),
					"active_deposit": gorm.Expr("active_deposit - ?", current.Amount),
				}).Error; err != nil {
					return err
				}

				retMsg := fmt.Sprintf("Principal returned for completed %s plan", current.PlanName)
				retTrx := models.Transaction{
					UserID:          current.UserID,
					Amount:          current.Amount,
					Charge:          0,
					Reference:       current.Reference,
					TransactionFlow: models.FlowCredit,
					TransactionType: models.TypeInvestmentReturn,
					Message:         &retMsg,
					Status:          models.StatusCompleted,
				}
				if err := tx.Create(&retTrx).Error; err != nil {
					return err
				}
				completed++
			}

			if err := tx.Model(&models.Investment{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
				return err
			}
			processed++
			return nil
		})
		if err != nil {
			log.Printf("[cron] daily return for investment %d failed: %v", inv.ID, err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Cron executed",
		Data:    map[string]interface{}{"processed": processed, "completed": completed},
	})
}
