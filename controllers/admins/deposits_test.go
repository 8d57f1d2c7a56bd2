package admins

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blockfortune/database"
	"blockfortune/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB swaps database.DB for a gorm handle over sqlmock and returns the
// mock plus a restore func.
func newMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	prev := database.DB
	database.DB = gdb
	return mock, func() {
		database.DB = prev
		conn.Close()
	}
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func depositRows(id, userID, planID uint, amount float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "plan_id", "amount", "crypto_type", "wallet_address", "reference", "status"}).
		AddRow(id, userID, planID, amount, "BTC", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "BFT-DEP-0001237", status)
}

func planRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "min_amount", "max_amount", "daily_roi", "duration_days", "affiliate_commission", "status"}).
		AddRow(3, "Silver", 100.0, 1000.0, 1.5, 30, 5.0, models.PlanActive)
}

func profileRows(id uint, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "username", "first_name", "balance"}).
		AddRow(id, email, "ada", "Ada", 120.0)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (bool, string, map[string]interface{}) {
	t.Helper()
	var resp struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Success, resp.Message, resp.Data
}

// Approving a pending deposit credits the balance (and only the balance)
// with the deposit amount, flips the status and writes the referrer's
// commission at the plan rate.
func TestApproveDepositCreditsBalanceAndCommission(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunedeposits"`).
		WillReturnRows(depositRows(12, 7, 3, 500, models.StatusPending))
	mock.ExpectQuery(`SELECT \* FROM "blockfortune_investment_plans"`).
		WillReturnRows(planRows())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(profileRows(7, "ada@example.com"))
	mock.ExpectExec(`UPDATE "blockfortunedeposits" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`"balance"=balance \+ \$1`).
		WithArgs(500.0, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "blockfortune_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Depositor was referred by user 3; no prior commission for this deposit,
	// so a pending referral row for 5% of $500 is written.
	mock.ExpectQuery(`SELECT id, referred_by FROM "blockfortuneprofile"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referred_by"}).AddRow(7, 3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "blockfortunereferrals"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "blockfortunereferrals"`).
		WithArgs(3, 7, 12, 25.0, models.ReferralPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile"`).
		WillReturnRows(profileRows(7, "ada@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/deposits/12/approve", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "12"})
	rec := httptest.NewRecorder()
	ApproveDeposit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	success, _, data := decodeResponse(t, rec)
	if !success {
		t.Fatalf("success=false: %s", rec.Body.String())
	}
	if data["status"] != models.StatusCompleted {
		t.Fatalf("status %v, want %q", data["status"], models.StatusCompleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// A second approval finds zero pending rows: 409 with the current status,
// no balance change, no commission, no notification lookup.
func TestApproveDepositAlreadyProcessed(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunedeposits"`).
		WillReturnRows(depositRows(12, 7, 3, 500, models.StatusCompleted))
	mock.ExpectQuery(`SELECT \* FROM "blockfortune_investment_plans"`).
		WillReturnRows(planRows())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(profileRows(7, "ada@example.com"))
	mock.ExpectExec(`UPDATE "blockfortunedeposits" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectQuery(`SELECT .* FROM "blockfortunedeposits"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.StatusCompleted))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/deposits/12/approve", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "12"})
	rec := httptest.NewRecorder()
	ApproveDeposit(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
	}
	success, message, data := decodeResponse(t, rec)
	if success {
		t.Fatal("success=true on conflict")
	}
	if message != "Deposit already processed" {
		t.Fatalf("message %q", message)
	}
	if data["currentStatus"] != models.StatusCompleted {
		t.Fatalf("currentStatus %v, want %q", data["currentStatus"], models.StatusCompleted)
	}
	// No further queries were expected: the conflict path must not touch the
	// balance, write a commission or look up the user for an email.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// Rejecting a pending deposit flips the status and the ledger row but never
// touches the balance (nothing was credited yet).
func TestRejectDepositLeavesBalanceAlone(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunedeposits"`).
		WillReturnRows(depositRows(12, 7, 3, 500, models.StatusPending))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "blockfortunedeposits" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "blockfortune_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile"`).
		WillReturnRows(profileRows(7, "ada@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/deposits/12/reject", jsonBody(`{"notes":"No payment received"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "12"})
	rec := httptest.NewRecorder()
	RejectDeposit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	_, _, data := decodeResponse(t, rec)
	if data["status"] != models.StatusRejected {
		t.Fatalf("status %v, want %q", data["status"], models.StatusRejected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
