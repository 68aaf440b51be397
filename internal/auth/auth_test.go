package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/types"
)

const testSecret = "test-secret-key"

func TestSessionRoundTrip(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	raw, err := EncodeSession(testSecret, Principal{Email: "alice@x.com", Name: "Alice"}, clk, 0)
	require.NoError(t, err)

	p, err := DecodeSession(testSecret, raw, clk)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", p.Email)
	assert.Equal(t, "Alice", p.Name)
}

func TestSessionExpiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	raw, err := EncodeSession(testSecret, Principal{Email: "alice@x.com"}, clk, time.Hour)
	require.NoError(t, err)

	clk.Advance(61 * time.Minute)

	_, err = DecodeSession(testSecret, raw, clk)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

// A share token signed with the same secret must not pass as a session.
func TestShareTokenRejected(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec, err := token.NewCodec(testSecret, clk)
	require.NoError(t, err)

	raw, err := codec.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	_, err = DecodeSession(testSecret, raw, clk)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
