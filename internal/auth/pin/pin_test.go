package pin

import (
	"testing"
	"time"

	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVerifier(t *testing.T, pin string) (*Verifier, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, time.May, 16, 10, 0, 0, 0, time.UTC))
	v, err := New(&config.Config{CheckinPIN: pin}, clk, zap.NewNop())
	require.NoError(t, err)
	return v, clk
}

func TestLoginAndVerify(t *testing.T) {
	v, _ := newVerifier(t, "2026")

	token, err := v.Login("2026")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, v.Verify(token))
}

func TestLoginWrongPIN(t *testing.T) {
	v, _ := newVerifier(t, "2026")

	_, err := v.Login("1234")
	assert.ErrorIs(t, err, ErrWrongPIN)
}

func TestSessionExpiresAfterTwoDays(t *testing.T) {
	v, clk := newVerifier(t, "2026")

	token, err := v.Login("2026")
	require.NoError(t, err)

	clk.Advance(SessionTTL - time.Minute)
	assert.NoError(t, v.Verify(token))

	clk.Advance(2 * time.Minute)
	assert.ErrorIs(t, v.Verify(token), ErrSessionExpired)

	// Expired sessions are dropped, not resurrected.
	clk.Advance(-time.Hour)
	assert.ErrorIs(t, v.Verify(token), ErrSessionExpired)
}

func TestLogout(t *testing.T) {
	v, _ := newVerifier(t, "2026")

	token, err := v.Login("2026")
	require.NoError(t, err)
	v.Logout(token)
	assert.ErrorIs(t, v.Verify(token), ErrSessionExpired)
}

func TestDisabledWithoutPIN(t *testing.T) {
	v, _ := newVerifier(t, "")

	assert.False(t, v.Enabled())
	_, err := v.Login("anything")
	assert.ErrorIs(t, err, ErrPINDisabled)
	assert.ErrorIs(t, v.Verify(""), ErrSessionExpired)
}
