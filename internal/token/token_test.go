package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/pkg/types"
)

const testSecret = "test-secret-key"

func newTestCodec(t *testing.T) (*Codec, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec, err := NewCodec(testSecret, clk)
	require.NoError(t, err)
	return codec, clk
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("", clock.System())
	assert.Error(t, err)
}

func TestIssueAndDecode(t *testing.T) {
	codec, _ := newTestCodec(t)

	raw, err := codec.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead, types.PermissionDownload}, time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "file-1", claims.FileID)
	assert.Equal(t, "alice@x.com", claims.Grantor)
	assert.Equal(t, "bob@x.com", claims.Grantee)
	assert.True(t, claims.HasPermission(types.PermissionRead))
	assert.True(t, claims.HasPermission(types.PermissionDownload))
}

func TestDecode_Expired(t *testing.T) {
	codec, clk := newTestCodec(t)

	raw, err := codec.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	clk.Advance(time.Hour + time.Second)

	_, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDecode_Tampered(t *testing.T) {
	codec, _ := newTestCodec(t)

	raw, err := codec.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(raw + "x")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = codec.Decode("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_WrongSecret(t *testing.T) {
	codec, clk := newTestCodec(t)
	other, err := NewCodec("another-secret", clk)
	require.NoError(t, err)

	raw, err := other.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIssue_DefaultTTL(t *testing.T) {
	codec, clk := newTestCodec(t)

	raw, err := codec.Issue("file-1", "alice@x.com", "bob@x.com",
		[]types.Permission{types.PermissionRead}, 0)
	require.NoError(t, err)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(DefaultTTL).Unix(), claims.ExpiresAt.Unix())
}
