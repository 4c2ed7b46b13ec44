package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"cashly/config"

	"gopkg.in/gomail.v2"
)

// Notifier sends best-effort transactional email. It owns the circuit
// breaker state that used to live in module-level flags: once the
// provider reports a permanent failure (bad credentials, unverified
// sending domain) the breaker trips and later sends short-circuit for
// the rest of the process lifetime. Reset only by restart or Reset().
type Notifier struct {
	cfg *config.EmailConfig

	mu          sync.Mutex
	unavailable bool
	lastSentAt  time.Time
}

// NewNotifier builds the process-wide notifier.
func NewNotifier(cfg *config.EmailConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Unavailable reports whether the breaker has tripped.
func (n *Notifier) Unavailable() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.unavailable
}

// LastSentAt returns the timestamp of the last successful (or
// rate-limited) provider call, zero when none happened yet.
func (n *Notifier) LastSentAt() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastSentAt
}

// Reset clears the breaker, e.g. after rotating credentials.
func (n *Notifier) Reset() {
	n.mu.Lock()
	n.unavailable = false
	n.mu.Unlock()
}

// Send delivers one email through SMTP. It returns the provider error
// for callers that need it; Dispatch is the swallow-everything wrapper
// mutations use.
func (n *Notifier) Send(to, subject, body string) error {
	if !n.cfg.Enabled {
		return fmt.Errorf("email service disabled")
	}
	if to == "" {
		log.Printf("notify: no recipient address, skipping %q", subject)
		return nil
	}
	n.mu.Lock()
	if n.unavailable {
		n.mu.Unlock()
		log.Printf("notify: email unavailable (breaker open), skipping %q", subject)
		return nil
	}
	n.mu.Unlock()

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.Username, n.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.recordFailure(err)
		return fmt.Errorf("send email: %w", err)
	}

	n.mu.Lock()
	n.lastSentAt = time.Now()
	n.mu.Unlock()
	log.Printf("notify: sent %q to %s", subject, to)
	return nil
}

// recordFailure classifies a provider error. Credential and
// domain-verification failures trip the breaker without touching the
// timestamp; rate limiting trips it and records the attempt time.
func (n *Notifier) recordFailure(err error) {
	msg := strings.ToLower(err.Error())
	n.mu.Lock()
	defer n.mu.Unlock()
	switch {
	case strings.Contains(msg, "credential"),
		strings.Contains(msg, "authentication failed"),
		strings.Contains(msg, "username and password not accepted"):
		n.unavailable = true
		log.Printf("notify: provider rejected credentials, email disabled for this process: %v", err)
	case strings.Contains(msg, "domain"):
		n.unavailable = true
		log.Printf("notify: sending domain not verified, email disabled for this process: %v", err)
	case strings.Contains(msg, "rate"), strings.Contains(msg, "too many"):
		n.unavailable = true
		n.lastSentAt = time.Now()
		log.Printf("notify: provider rate limited: %v", err)
	default:
		log.Printf("notify: send failed: %v", err)
	}
}

// Dispatch sends a notification email and swallows every failure.
// A mutation's success must never depend on the side channel.
func (n *Notifier) Dispatch(to, subject, body string) {
	if !n.cfg.Enabled {
		return
	}
	if err := n.Send(to, subject, body); err != nil {
		log.Printf("notify: dispatch %q failed: %v", subject, err)
	}
}
