package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference(RefDeposit, 42)
	if !strings.HasPrefix(ref, "BFT-DEP-") {
		t.Fatalf("reference %q missing BFT-DEP- prefix", ref)
	}
	if !strings.HasSuffix(ref, "42") {
		t.Fatalf("reference %q missing user id suffix", ref)
	}
}

func TestGenerateReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := GenerateReference(RefWithdrawal, 7)
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = true
	}
}

func TestRoundCents(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{10.004, 10.0},
		{10.006, 10.01},
		{0, 0},
		{99.999, 100},
		{7.49925, 7.5},
		{2.33331, 2.33},
	}
	for _, c := range cases {
		if got := RoundCents(c.in); got != c.want {
			t.Errorf("RoundCents(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
