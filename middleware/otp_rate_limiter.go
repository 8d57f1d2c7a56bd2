package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OTPRequestRecord tracks password-reset OTP requests for an email address
type OTPRequestRecord struct {
	Count       int
	FirstReqAt  time.Time
	LastReqAt   time.Time
	Locked      bool
	LockedUntil time.Time
}

// OTPRateLimiter manages rate limiting for OTP requests
type OTPRateLimiter struct {
	emailRecords  map[string]*OTPRequestRecord
	ipRecords     map[string]*IPOTPRecord
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
}

// IPOTPRecord tracks OTP requests per IP
type IPOTPRecord struct {
	Count      int
	FirstReqAt time.Time
	LastReqAt  time.Time
}

var globalOTPLimiter *OTPRateLimiter
var otpLimiterOnce sync.Once

// GetOTPRateLimiter returns the global OTP rate limiter instance
func GetOTPRateLimiter() *OTPRateLimiter {
	otpLimiterOnce.Do(func() {
		globalOTPLimiter = NewOTPRateLimiter()
	})
	return globalOTPLimiter
}

// NewOTPRateLimiter creates a new OTP rate limiter
func NewOTPRateLimiter() *OTPRateLimiter {
	limiter := &OTPRateLimiter{
		emailRecords: make(map[string]*OTPRequestRecord),
		ipRecords:    make(map[string]*IPOTPRecord),
	}

	limiter.cleanupTicker = time.NewTicker(5 * time.Minute)
	go limiter.cleanup()

	return limiter
}

func (l *OTPRateLimiter) cleanup() {
	for range l.cleanupTicker.C {
		l.mu.Lock()
		now := time.Now()

		for email, record := range l.emailRecords {
			if !record.Locked && now.Sub(record.LastReqAt) > time.Hour {
				delete(l.emailRecords, email)
			} else if record.Locked && now.After(record.LockedUntil) {
				record.Locked = false
				record.Count = 0
				record.FirstReqAt = time.Time{}
				record.LastReqAt = time.Time{}
			}
		}

		for ip, record := range l.ipRecords {
			if now.Sub(record.LastReqAt) > 30*time.Minute {
				delete(l.ipRecords, ip)
			}
		}

		l.mu.Unlock()
	}
}

// CheckEmailRateLimit checks if an email address can request another OTP.
// Returns (allowed, waitDuration, message). The wait escalates 1m, 5m, 10m,
// then locks for 1 hour.
func (l *OTPRateLimiter) CheckEmailRateLimit(email string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now()
	record, exists := l.emailRecords[email]

	if !exists {
		l.emailRecords[email] = &OTPRequestRecord{
			Count:      1,
			FirstReqAt: now,
			LastReqAt:  now,
			Locked:     false,
		}
		return true, 0, ""
	}

	if record.Locked {
		if now.Before(record.LockedUntil) {
			waitTime := record.LockedUntil.Sub(now)
			return false, waitTime, "You have reached the request limit, please try again in 1 hour"
		}
		record.Locked = false
		record.Count = 0
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	record.Count++
	record.LastReqAt = now

	switch record.Count {
	case 1:
		return true, 0, ""
	case 2:
		elapsed := now.Sub(record.FirstReqAt)
		if elapsed < time.Minute {
			waitTime := time.Minute - elapsed
			record.Count--
			return false, waitTime, "Wait 1 minute before requesting another code"
		}
		return true, 0, ""
	case 3:
		elapsed := now.Sub(record.FirstReqAt)
		if elapsed < 5*time.Minute {
			waitTime := 5*time.Minute - elapsed
			record.Count--
			return false, waitTime, "Wait 5 minutes before requesting another code"
		}
		return true, 0, ""
	case 4:
		elapsed := now.Sub(record.FirstReqAt)
		if elapsed < 10*time.Minute {
			waitTime := 10*time.Minute - elapsed
			record.Count--
			return false, waitTime, "Wait 10 minutes before requesting another code"
		}
		return true, 0, ""
	case 5:
		record.Locked = true
		record.LockedUntil = now.Add(time.Hour)
		return false, time.Hour, "You have reached the request limit, please try again in 1 hour"
	default:
		if record.Locked && now.Before(record.LockedUntil) {
			waitTime := record.LockedUntil.Sub(now)
			return false, waitTime, "You have reached the request limit, please try again in 1 hour"
		}
		record.Locked = false
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}
}

// CheckIPRateLimit checks if an IP can make an OTP request.
// Returns (allowed, waitDuration, message)
func (l *OTPRateLimiter) CheckIPRateLimit(ip string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	record, exists := l.ipRecords[ip]

	if !exists {
		l.ipRecords[ip] = &IPOTPRecord{
			Count:      1,
			FirstReqAt: now,
			LastReqAt:  now,
		}
		return true, 0, ""
	}

	elapsed := now.Sub(record.FirstReqAt)
	if elapsed >= 30*time.Minute {
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	record.Count++
	record.LastReqAt = now

	if record.Count > 5 {
		waitTime := 30*time.Minute - elapsed
		record.Count--
		return false, waitTime, "Too many requests. Try again later."
	}

	return true, 0, ""
}

// ResetEmailLimit resets the rate limit for an email (used after successful reset)
func (l *OTPRateLimiter) ResetEmailLimit(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.emailRecords, strings.ToLower(strings.TrimSpace(email)))
}

// GetRetryAfterSeconds calculates retry_after_seconds for an email without modifying state
func (l *OTPRateLimiter) GetRetryAfterSeconds(email string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now()
	record, exists := l.emailRecords[email]

	if !exists {
		return 0
	}

	if record.Locked {
		if now.Before(record.LockedUntil) {
			return int(record.LockedUntil.Sub(now).Seconds())
		}
		return 0
	}

	elapsed := now.Sub(record.FirstReqAt)
	switch record.Count {
	case 1:
		return int(time.Minute.Seconds())
	case 2:
		if elapsed < time.Minute {
			return int((time.Minute - elapsed).Seconds())
		}
		if elapsed < 5*time.Minute {
			return int((5*time.Minute - elapsed).Seconds())
		}
		return 0
	case 3:
		if elapsed < 5*time.Minute {
			return int((5*time.Minute - elapsed).Seconds())
		}
		if elapsed < 10*time.Minute {
			return int((10*time.Minute - elapsed).Seconds())
		}
		return 0
	case 4:
		if elapsed < 10*time.Minute {
			return int((10*time.Minute - elapsed).Seconds())
		}
		return int(time.Hour.Seconds())
	case 5:
		return int(time.Hour.Seconds())
	default:
		if record.Locked && now.Before(record.LockedUntil) {
			return int(record.LockedUntil.Sub(now).Seconds())
		}
		return 0
	}
}

// GetClientIP extracts the client IP from the request
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
