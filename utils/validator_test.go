package utils

import "testing"

func TestSupportedCrypto(t *testing.T) {
	for _, sym := range []string{"BTC", "eth", " usdt ", "BNB", "sol"} {
		if !SupportedCrypto(sym) {
			t.Errorf("SupportedCrypto(%q) = false, want true", sym)
		}
	}
	for _, sym := range []string{"DOGE", "", "XRP"} {
		if SupportedCrypto(sym) {
			t.Errorf("SupportedCrypto(%q) = true, want false", sym)
		}
	}
}

func TestValidateWalletAddress(t *testing.T) {
	valid := []struct{ crypto, addr string }{
		{"BTC", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
		{"BTC", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
		{"ETH", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
		{"USDT", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
		{"USDT", "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8"},
		{"SOL", "4Nd1mYvM6HVrtsVdMKUPgVKHNFpMccBgjmVPvChUCJom"},
	}
	for _, c := range valid {
		if err := ValidateWalletAddress(c.crypto, c.addr); err != nil {
			t.Errorf("ValidateWalletAddress(%s, %s) = %v, want nil", c.crypto, c.addr, err)
		}
	}

	invalid := []struct{ crypto, addr string }{
		{"ETH", "0x742d35"},
		{"BTC", "not-an-address"},
		{"SOL", "0OIl"},
		{"DOGE", "DKs7yKJtSGGUWGkkVMmo2MafHyuBiSenu2"},
	}
	for _, c := range invalid {
		if err := ValidateWalletAddress(c.crypto, c.addr); err == nil {
			t.Errorf("ValidateWalletAddress(%s, %s) = nil, want error", c.crypto, c.addr)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Username string `validate:"required,username"`
		Password string `validate:"required,pwdmin"`
		Confirm  string `validate:"eqfield=Password"`
	}

	ok := form{Email: "a@b.co", Username: "alice_1", Password: "secret123", Confirm: "secret123"}
	if err := ValidateStruct(&ok); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	bad := ok
	bad.Email = "not-an-email"
	if err := ValidateStruct(&bad); err == nil {
		t.Fatal("invalid email accepted")
	}

	bad = ok
	bad.Confirm = "different"
	if err := ValidateStruct(&bad); err == nil {
		t.Fatal("mismatched confirmation accepted")
	}

	bad = ok
	bad.Password = "short"
	bad.Confirm = "short"
	if err := ValidateStruct(&bad); err == nil {
		t.Fatal("short password accepted")
	}
}
