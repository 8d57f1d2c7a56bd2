package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends templated HTML email over SMTP with implicit TLS (port 465).
// All notification sends are best-effort: callers fire them in a goroutine and
// a failed send is logged, never surfaced to the user or rolled back.
type Mailer struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
}

// NewMailerFromEnv builds a Mailer from SMTP_* env vars. Returns an error
// when the transport is not configured, so callers can skip sending.
func NewMailerFromEnv() (*Mailer, error) {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		return nil, errors.New("SMTP_HOST is not set")
	}
	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if port == "" {
		port = "465"
	}
	return &Mailer{
		smtpHost: host,
		smtpPort: port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		fromName: getenvDefault("SMTP_FROM_NAME", "BlockFortune"),
	}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Send delivers a single HTML message. Implicit TLS for port 465.
func (m *Mailer) Send(to, subject, body string) error {
	from := m.username
	msg := []byte(
		fmt.Sprintf("From: %s <%s>\r\n", m.fromName, from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.smtpHost + ":" + m.smtpPort
	tlsConfig := &tls.Config{ServerName: m.smtpHost}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.smtpHost)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.smtpHost)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

// SendAsync fires the send in a goroutine. Failures are logged only.
func SendAsync(to, subject, body string) {
	go func() {
		m, err := NewMailerFromEnv()
		if err != nil {
			log.Printf("[mailer] skipped (%s): %v", subject, err)
			return
		}
		if err := m.Send(to, subject, body); err != nil {
			log.Printf("[mailer] send failed to %s (%s): %v", to, subject, err)
		}
	}()
}

// AdminEmail returns the back-office alert address.
func AdminEmail() string {
	return getenvDefault("ADMIN_EMAIL", "admin@blockfortune.com")
}

// --- Templates ---

func emailShell(title, inner string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto">
<h2 style="color:#0b3d91">%s</h2>
%s
<p style="color:#888;font-size:12px">BlockFortune &middot; automated notification, do not reply.</p>
</div>`, title, inner)
}

// DepositRequestedBody is the admin alert for a new pending deposit.
func DepositRequestedBody(username, reference, cryptoType string, amount float64) string {
	inner := fmt.Sprintf(`<p>User <b>%s</b> submitted a deposit of <b>$%.2f</b> in %s.</p>
<p>Reference: <code>%s</code></p>
<p>Review it in the back-office.</p>`, username, amount, cryptoType, reference)
	return emailShell("New deposit pending approval", inner)
}

// DepositApprovedBody notifies the user their deposit was credited.
func DepositApprovedBody(firstName, reference string, amount float64) string {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your deposit <code>%s</code> of <b>$%.2f</b> has been approved and credited to your balance.</p>`, firstName, reference, amount)
	return emailShell("Deposit approved", inner)
}

// DepositRejectedBody notifies the user their deposit was rejected.
func DepositRejectedBody(firstName, reference, notes string) string {
	if notes == "" {
		notes = "Contact support for details."
	}
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your deposit <code>%s</code> was rejected.</p>
<p>%s</p>`, firstName, reference, notes)
	return emailShell("Deposit rejected", inner)
}

// WithdrawalRequestedBody is the admin alert for a new pending withdrawal.
func WithdrawalRequestedBody(username, reference, cryptoType string, amount, fee float64) string {
	inner := fmt.Sprintf(`<p>User <b>%s</b> requested a withdrawal of <b>$%.2f</b> (+$%.2f network fee) in %s.</p>
<p>Reference: <code>%s</code></p>`, username, amount, fee, cryptoType, reference)
	return emailShell("New withdrawal pending approval", inner)
}

// WithdrawalApprovedBody notifies the user their withdrawal was paid out.
func WithdrawalApprovedBody(firstName, reference string, amount float64) string {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your withdrawal <code>%s</code> of <b>$%.2f</b> has been processed and sent to your wallet.</p>`, firstName, reference, amount)
	return emailShell("Withdrawal completed", inner)
}

// WithdrawalRejectedBody notifies the user their withdrawal was rejected and funds restored.
func WithdrawalRejectedBody(firstName, reference, notes string, amount float64) string {
	if notes == "" {
		notes = "Contact support for details."
	}
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your withdrawal <code>%s</code> of <b>$%.2f</b> was rejected. The reserved amount has been returned to your balance.</p>
<p>%s</p>`, firstName, reference, amount, notes)
	return emailShell("Withdrawal rejected", inner)
}

// WelcomeBody greets a newly registered user and shows their referral code.
func WelcomeBody(firstName, referralCode string) string {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome to BlockFortune. Your account is ready.</p>
<p>Your referral code: <b>%s</b></p>`, firstName, referralCode)
	return emailShell("Welcome to BlockFortune", inner)
}

// PasswordOTPBody carries the reset code.
func PasswordOTPBody(firstName, code string) string {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your password reset code is <b style="font-size:20px">%s</b>. It expires in 10 minutes.</p>
<p>If you didn't request this, ignore this email.</p>`, firstName, code)
	return emailShell("Password reset code", inner)
}
