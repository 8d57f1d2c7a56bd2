package models

import "testing"

func TestExpectedReturn(t *testing.T) {
	// $1000 at 1.5%/day for 30 days: 1000 + 1000*0.015*30 = 1450
	got := ExpectedReturn(1000, 1.5, 30)
	if got != 1450.00 {
		t.Fatalf("ExpectedReturn(1000, 1.5, 30) = %v, want 1450.00", got)
	}

	// Rounding: $333.33 at 0.7%/day for 7 days
	got = ExpectedReturn(333.33, 0.7, 7)
	want := 349.66 // 333.33 + 333.33*0.007*7 = 349.66317 -> 349.66
	if got != want {
		t.Fatalf("ExpectedReturn(333.33, 0.7, 7) = %v, want %v", got, want)
	}
}

func TestDailyEarning(t *testing.T) {
	if got := DailyEarning(1000, 1.5); got != 15.00 {
		t.Fatalf("DailyEarning(1000, 1.5) = %v, want 15.00", got)
	}
	if got := DailyEarning(333.33, 0.7); got != 2.33 {
		t.Fatalf("DailyEarning(333.33, 0.7) = %v, want 2.33", got)
	}
}

func TestCommissionAmount(t *testing.T) {
	// 5% of a $500 deposit
	if got := CommissionAmount(500, 5); got != 25.00 {
		t.Fatalf("CommissionAmount(500, 5) = %v, want 25.00", got)
	}
	if got := CommissionAmount(99.99, 7.5); got != 7.50 {
		t.Fatalf("CommissionAmount(99.99, 7.5) = %v, want 7.50", got)
	}
	if got := CommissionAmount(500, 0); got != 0 {
		t.Fatalf("CommissionAmount(500, 0) = %v, want 0", got)
	}
}

func TestWithdrawalTotalAndProcessed(t *testing.T) {
	w := Withdrawal{Amount: 100, NetworkFee: 2, Status: StatusPending}
	if got := w.Total(); got != 102 {
		t.Fatalf("Total() = %v, want 102", got)
	}
	if w.Processed() {
		t.Fatal("pending withdrawal reported as processed")
	}
	w.Status = StatusCompleted
	if !w.Processed() {
		t.Fatal("completed withdrawal not reported as processed")
	}
	w.Status = StatusRejected
	if !w.Processed() {
		t.Fatal("rejected withdrawal not reported as processed")
	}
}

func TestPlanAllowsAmount(t *testing.T) {
	p := InvestmentPlan{MinAmount: 100, MaxAmount: 1000}
	cases := []struct {
		amount float64
		want   bool
	}{
		{99.99, false},
		{100, true},
		{500, true},
		{1000, true},
		{1000.01, false},
	}
	for _, c := range cases {
		if got := p.AllowsAmount(c.amount); got != c.want {
			t.Errorf("AllowsAmount(%v) = %v, want %v", c.amount, got, c.want)
		}
	}
}
