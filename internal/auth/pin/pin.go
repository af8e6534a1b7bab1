// Package pin gates the event-day check-in screen behind a shared PIN.
package pin

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const SessionTTL = 48 * time.Hour

var (
	ErrWrongPIN       = errors.New("wrong_pin")
	ErrSessionExpired = errors.New("session_expired")
	ErrPINDisabled    = errors.New("pin_disabled")
)

// Verifier checks the shared PIN and issues opaque session tokens with a
// two day lifetime. Sessions live in memory; a restart just asks for the
// PIN again.
type Verifier struct {
	hash  []byte
	clock clock.Clock
	log   *zap.Logger

	mu       sync.Mutex
	sessions map[string]time.Time
}

func New(cfg *config.Config, clk clock.Clock, log *zap.Logger) (*Verifier, error) {
	v := &Verifier{
		clock:    clk,
		log:      log.Named("auth.pin"),
		sessions: map[string]time.Time{},
	}
	if cfg.CheckinPIN == "" {
		return v, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.CheckinPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	v.hash = hash
	return v, nil
}

// Enabled reports whether a PIN was configured at all.
func (v *Verifier) Enabled() bool { return len(v.hash) > 0 }

// Login verifies the PIN and returns a session token.
func (v *Verifier) Login(pin string) (string, error) {
	if !v.Enabled() {
		return "", ErrPINDisabled
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(pin)); err != nil {
		v.log.Warn("check-in login rejected")
		return "", ErrWrongPIN
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	v.mu.Lock()
	v.sessions[token] = v.clock.Now().Add(SessionTTL)
	v.mu.Unlock()
	return token, nil
}

// Verify checks that the token names a live session.
func (v *Verifier) Verify(token string) error {
	if token == "" {
		return ErrSessionExpired
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	expiry, ok := v.sessions[token]
	if !ok {
		return ErrSessionExpired
	}
	if v.clock.Now().After(expiry) {
		delete(v.sessions, token)
		return ErrSessionExpired
	}
	return nil
}

// Logout drops the session.
func (v *Verifier) Logout(token string) {
	v.mu.Lock()
	delete(v.sessions, token)
	v.mu.Unlock()
}

var Module = fx.Module("auth.pin",
	fx.Provide(New),
)
