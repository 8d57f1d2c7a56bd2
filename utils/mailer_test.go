package utils

import (
	"strings"
	"testing"
)

func TestDepositEmailBodies(t *testing.T) {
	body := DepositRequestedBody("alice", "BFT-DEP-123", "BTC", 500)
	for _, want := range []string{"alice", "BFT-DEP-123", "BTC", "$500.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("DepositRequestedBody missing %q", want)
		}
	}

	body = DepositApprovedBody("Alice", "BFT-DEP-123", 500)
	if !strings.Contains(body, "approved") || !strings.Contains(body, "$500.00") {
		t.Errorf("DepositApprovedBody incomplete: %s", body)
	}

	body = DepositRejectedBody("Alice", "BFT-DEP-123", "")
	if !strings.Contains(body, "Contact support") {
		t.Error("DepositRejectedBody without notes should point at support")
	}
	body = DepositRejectedBody("Alice", "BFT-DEP-123", "Transaction hash not found")
	if !strings.Contains(body, "Transaction hash not found") {
		t.Error("DepositRejectedBody dropped the admin notes")
	}
}

func TestWithdrawalEmailBodies(t *testing.T) {
	body := WithdrawalRequestedBody("bob", "BFT-WDL-9", "ETH", 100, 2)
	for _, want := range []string{"bob", "BFT-WDL-9", "$100.00", "$2.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("WithdrawalRequestedBody missing %q", want)
		}
	}

	body = WithdrawalRejectedBody("Bob", "BFT-WDL-9", "Wallet flagged", 100)
	if !strings.Contains(body, "returned to your balance") {
		t.Error("WithdrawalRejectedBody should mention the restored funds")
	}
	if !strings.Contains(body, "Wallet flagged") {
		t.Error("WithdrawalRejectedBody dropped the admin notes")
	}
}

func TestWelcomeAndOTPBodies(t *testing.T) {
	body := WelcomeBody("Carol", "X7K2P9QA")
	if !strings.Contains(body, "X7K2P9QA") {
		t.Error("WelcomeBody missing the referral code")
	}

	body = PasswordOTPBody("Carol", "031337")
	if !strings.Contains(body, "031337") {
		t.Error("PasswordOTPBody missing the code")
	}
	if !strings.Contains(body, "10 minutes") {
		t.Error("PasswordOTPBody missing the expiry hint")
	}
}
