package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// Minimal internal validator to avoid external dependency. Supports:
// - required
// - email (basic RFC-ish shape)
// - username (letters, numbers, underscore, 3-30 chars)
// - nameok (letters, numbers, space, hyphen, apostrophe, 1-100 chars)
// - pwdmin (min length 8)
// - eqfield=OtherField (field equals another field)

var (
	reEmail    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	reNameOK   = regexp.MustCompile(`^[A-Za-z0-9 \-']{1,100}$`)
)

// Wallet address shapes per supported crypto type. These are format checks
// only; they do not verify checksums.
var walletPatterns = map[string]*regexp.Regexp{
	"BTC":  regexp.MustCompile(`^(1|3)[a-km-zA-HJ-NP-Z1-9]{25,34}$|^bc1[a-z0-9]{8,87}$`),
	"ETH":  regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"USDT": regexp.MustCompile(`^0x[0-9a-fA-F]{40}$|^T[1-9A-HJ-NP-Za-km-z]{33}$`),
	"BNB":  regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"SOL":  regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
	"LTC":  regexp.MustCompile(`^(L|M)[a-km-zA-HJ-NP-Z1-9]{26,33}$|^ltc1[a-z0-9]{8,87}$`),
}

// SupportedCrypto reports whether the given symbol is an accepted crypto type.
func SupportedCrypto(symbol string) bool {
	_, ok := walletPatterns[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// ValidateWalletAddress checks address format for the given crypto type.
func ValidateWalletAddress(cryptoType, address string) error {
	re, ok := walletPatterns[strings.ToUpper(strings.TrimSpace(cryptoType))]
	if !ok {
		return errors.New("unsupported crypto type")
	}
	if !re.MatchString(strings.TrimSpace(address)) {
		return errors.New("invalid wallet address for " + strings.ToUpper(cryptoType))
	}
	return nil
}

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "required" {
				if sval == "" {
					return errors.New(field.Name + " is required")
				}
			} else if p == "email" {
				if sval != "" && !reEmail.MatchString(sval) {
					return errors.New(field.Name + " must be a valid email address")
				}
			} else if p == "username" {
				if sval != "" && !reUsername.MatchString(sval) {
					return errors.New(field.Name + " must be 3-30 letters, numbers or underscores")
				}
			} else if p == "nameok" {
				if sval != "" && !reNameOK.MatchString(sval) {
					return errors.New(field.Name + " contains invalid characters")
				}
			} else if p == "pwdmin" {
				if len(sval) < 8 {
					return errors.New(field.Name + " must be at least 8 characters")
				}
			} else if strings.HasPrefix(p, "eqfield=") {
				other := strings.TrimPrefix(p, "eqfield=")
				of := v.FieldByName(other)
				if of.IsValid() && of.Kind() == reflect.String {
					if sval != of.String() {
						return errors.New(field.Name + " must equal " + other)
					}
				}
			}
		}
	}
	return nil
}
