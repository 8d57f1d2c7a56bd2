package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// Sweeping referral earnings credits the balance with exactly the sum of the
// rows flipped to paid, in one transaction.
func TestWithdrawReferralEarningsSweepEquality(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(9, 10.0))
	mock.ExpectQuery(`SELECT \* FROM "blockfortunereferrals" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referee_id", "earned_amount", "status"}).
			AddRow(41, 9, 21, 25.0, "pending").
			AddRow(42, 9, 22, 7.5, "pending").
			AddRow(43, 9, 23, 12.5, "pending"))
	mock.ExpectExec(`UPDATE "blockfortunereferrals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`"balance"=balance \+ \$1,.*"earned_total"=earned_total \+ \$2`).
		WithArgs(45.0, 45.0, sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "blockfortune_referral_withdrawals"`).
		WithArgs(9, 45.0, 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO "blockfortune_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(61))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	WithdrawReferralEarningsHandler(rec, authedRequest(http.MethodPost, "/v1/users/referrals/withdraw", "", 9))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	success, _, data := decodeResponse(t, rec)
	if !success {
		t.Fatalf("success=false: %s", rec.Body.String())
	}
	if data["amount"] != 45.0 {
		t.Fatalf("amount %v, want 45", data["amount"])
	}
	if data["count"] != 3.0 {
		t.Fatalf("count %v, want 3", data["count"])
	}
	ref, _ := data["reference"].(string)
	if !strings.HasPrefix(ref, "BFT-REF-") {
		t.Fatalf("reference %q, want BFT-REF- prefix", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// With nothing pending the sweep refuses and rolls back without touching the
// balance.
func TestWithdrawReferralEarningsNothingPending(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "blockfortuneprofile" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(9, 10.0))
	mock.ExpectQuery(`SELECT \* FROM "blockfortunereferrals" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "earned_amount", "status"}))
	mock.ExpectRollback()

	rec := httptest.NewRecorder()
	WithdrawReferralEarningsHandler(rec, authedRequest(http.MethodPost, "/v1/users/referrals/withdraw", "", 9))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No pending referral earnings") {
		t.Fatalf("body %q, want nothing-pending message", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
