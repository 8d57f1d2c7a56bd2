package admins

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blockfortune/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
)

func withdrawalRows(id, userID uint, amount, fee float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "amount", "network_fee", "crypto_type", "wallet_address", "reference", "status"}).
		AddRow(id, userID, amount, fee, "ETH", "0x52908400098527886E0F7030069857D2E4169EE7", "BFT-WDL-0009414", status)
}

// Approval releases the reservation made at request time: pending_withdrawal
// drops by amount+fee while withdrawal_total grows by the amount alone. The
// balance was already debited when the request was made.
func TestApproveWithdrawalClearsReservation(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunewithdrawals"`).
		WillReturnRows(withdrawalRows(8, 4, 100, 5, models.StatusPending))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(profileRows(4, "lee@example.com"))
	mock.ExpectExec(`UPDATE "blockfortunewithdrawals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`"pending_withdrawal"=pending_withdrawal - \$1,.*"withdrawal_total"=withdrawal_total \+ \$2`).
		WithArgs(105.0, 100.0, sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "blockfortune_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile"`).
		WillReturnRows(profileRows(4, "lee@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/withdrawals/8/approve", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "8"})
	rec := httptest.NewRecorder()
	ApproveWithdrawal(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	_, _, data := decodeResponse(t, rec)
	if data["status"] != models.StatusCompleted {
		t.Fatalf("status %v, want %q", data["status"], models.StatusCompleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// Rejection gives the full reserved amount (payout plus fee) back to the
// balance.
func TestRejectWithdrawalReturnsReservedFunds(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunewithdrawals"`).
		WillReturnRows(withdrawalRows(8, 4, 100, 5, models.StatusPending))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(profileRows(4, "lee@example.com"))
	mock.ExpectExec(`UPDATE "blockfortunewithdrawals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`"balance"=balance \+ \$1,.*"pending_withdrawal"=pending_withdrawal - \$2`).
		WithArgs(105.0, 105.0, sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "blockfortune_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile"`).
		WillReturnRows(profileRows(4, "lee@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/withdrawals/8/reject", jsonBody(`{"notes":"Wallet address mismatch"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "8"})
	rec := httptest.NewRecorder()
	RejectWithdrawal(rec, req)

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

// A withdrawal that already left pending reports its current status and
// changes nothing.
func TestApproveWithdrawalAlreadyProcessed(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT \* FROM "blockfortunewithdrawals"`).
		WillReturnRows(withdrawalRows(8, 4, 100, 5, models.StatusRejected))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(profileRows(4, "lee@example.com"))
	mock.ExpectExec(`UPDATE "blockfortunewithdrawals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectQuery(`SELECT .* FROM "blockfortunewithdrawals"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.StatusRejected))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/withdrawals/8/approve", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "8"})
	rec := httptest.NewRecorder()
	ApproveWithdrawal(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
	}
	success, message, data := decodeResponse(t, rec)
	if success {
		t.Fatal("success=true on conflict")
	}
	if message != "Withdrawal already processed" {
		t.Fatalf("message %q", message)
	}
	if data["currentStatus"] != models.StatusRejected {
		t.Fatalf("currentStatus %v, want %q", data["currentStatus"], models.StatusRejected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
