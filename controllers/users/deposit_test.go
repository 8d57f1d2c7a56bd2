package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blockfortune/database"
	"blockfortune/models"
	"blockfortune/utils"

	"github.com/DATA-DOG/go-sqlmock"
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

// authedRequest builds a request carrying the given user id, as the auth
// middleware would.
func authedRequest(method, target, body string, uid uint) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), utils.UserIDKey, uid))
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

// A $500 deposit into an eligible plan lands as pending with a DEP reference
// and a matching pending ledger row; nothing is credited yet.
func TestCreateDepositPendingWithReference(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortune_investment_plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "min_amount", "max_amount", "daily_roi", "duration_days", "affiliate_commission", "status"}).
			AddRow(3, "Silver", 100.0, 1000.0, 1.5, 30, 5.0, models.PlanActive))
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "first_name"}).
			AddRow(7, "ada@example.com", "ada", "Ada"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "blockfortunedeposits"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery(`INSERT INTO "blockfortune_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
	mock.ExpectCommit()

	body := `{"plan_id":3,"amount":500,"crypto_type":"BTC","wallet_address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}`
	rec := httptest.NewRecorder()
	CreateDepositHandler(rec, authedRequest(http.MethodPost, "/v1/users/deposits", body, 7))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", rec.Code, rec.Body.String())
	}
	success, _, data := decodeResponse(t, rec)
	if !success {
		t.Fatalf("success=false: %s", rec.Body.String())
	}
	if data["status"] != models.StatusPending {
		t.Fatalf("status %v, want %q", data["status"], models.StatusPending)
	}
	if data["amount"] != 500.0 {
		t.Fatalf("amount %v, want 500", data["amount"])
	}
	ref, _ := data["reference"].(string)
	if !strings.HasPrefix(ref, "BFT-DEP-") {
		t.Fatalf("reference %q, want BFT-DEP- prefix", ref)
	}
	if !strings.HasSuffix(ref, "7") {
		t.Fatalf("reference %q, want user id suffix", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// An amount outside the plan bounds is refused before anything is written.
func TestCreateDepositRejectsAmountOutsidePlanBounds(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortune_investment_plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "min_amount", "max_amount", "status"}).
			AddRow(3, "Silver", 100.0, 1000.0, models.PlanActive))

	body := `{"plan_id":3,"amount":5000,"crypto_type":"BTC","wallet_address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}`
	rec := httptest.NewRecorder()
	CreateDepositHandler(rec, authedRequest(http.MethodPost, "/v1/users/deposits", body, 7))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "between") {
		t.Fatalf("body %q, want plan bounds message", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
