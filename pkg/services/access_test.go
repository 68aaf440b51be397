package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peershare/peershare/pkg/types"
)

func TestAuthorize_OwnerSupremacy(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	creds := Credentials{Principal: ownerAlice}
	assert.NoError(t, svc.Access().Authorize(file, creds, types.PermissionRead))
	assert.NoError(t, svc.Access().Authorize(file, creds, types.PermissionDownload))
}

func TestAuthorize_NoCredentials(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	err := svc.Access().Authorize(file, Credentials{}, types.PermissionRead)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

// Scenario A: a stranger with a session but no grant of any kind is denied.
func TestAuthorize_StrangerDenied(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	err := svc.Access().Authorize(file, Credentials{Principal: userBob}, types.PermissionDownload)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))
}

// Scenario C: allow-list membership grants read and download, and removal
// revokes both.
func TestAuthorize_AllowList(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	_, err := svc.ShareWithList(ownerAlice, "f1", []string{userBob})
	require.NoError(t, err)

	file, err = svc.db.GetFile("f1")
	require.NoError(t, err)
	assert.NoError(t, svc.Access().Authorize(file, Credentials{Principal: userBob}, types.PermissionRead))
	assert.NoError(t, svc.Access().Authorize(file, Credentials{Principal: userBob}, types.PermissionDownload))

	_, err = svc.Unshare(ownerAlice, "f1", []string{userBob})
	require.NoError(t, err)

	file, err = svc.db.GetFile("f1")
	require.NoError(t, err)
	assert.Error(t, svc.Access().Authorize(file, Credentials{Principal: userBob}, types.PermissionRead))
	assert.Error(t, svc.Access().Authorize(file, Credentials{Principal: userBob}, types.PermissionDownload))
}

// Scenario B: a freshly granted token allows the permission it carries and
// stops working once its TTL elapses.
func TestAuthorize_TokenLifecycle(t *testing.T) {
	svc, clk := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionDownload}, time.Hour)
	require.NoError(t, err)

	creds := Credentials{Principal: userBob, Token: raw}
	assert.NoError(t, svc.Access().Authorize(file, creds, types.PermissionDownload))

	clk.Advance(time.Hour + time.Second)
	assert.Error(t, svc.Access().Authorize(file, creds, types.PermissionDownload))
}

// Scenario D: revoking the grant defeats a token that is still
// cryptographically valid. This is the revocation mechanism.
func TestAuthorize_RevocationOverridesValidity(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	_, err = svc.RevokeGrant(ownerAlice, "f1", userBob)
	require.NoError(t, err)

	// The token still decodes fine...
	_, err = svc.codec.Decode(raw)
	require.NoError(t, err)

	// ...but access is denied because the store no longer acknowledges it.
	err = svc.Access().Authorize(file, Credentials{Principal: userBob, Token: raw}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrShareTokenInvalid)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestAuthorize_TokenPermissionScope(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	creds := Credentials{Principal: userBob, Token: raw}
	assert.NoError(t, svc.Access().Authorize(file, creds, types.PermissionRead))
	assert.Error(t, svc.Access().Authorize(file, creds, types.PermissionDownload))
}

func TestAuthorize_TokenWrongFile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	seedFile(t, svc, "f1", ownerAlice)
	other := seedFile(t, svc, "f2", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	err = svc.Access().Authorize(other, Credentials{Principal: userBob, Token: raw}, types.PermissionRead)
	assert.Error(t, err)
}

// Presenting someone else's token under your own session is rejected.
func TestAuthorize_TokenIsPersonal(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	err = svc.Access().Authorize(file, Credentials{Principal: userCarol, Token: raw}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrNotRecipient)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

// Without a session, the caller must claim the recipient identity the token
// names; the bare token is not a free-floating bearer credential.
func TestAuthorize_TokenWithoutSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	assert.NoError(t, svc.Access().Authorize(file,
		Credentials{Claimed: userBob, Token: raw}, types.PermissionRead))

	err = svc.Access().Authorize(file, Credentials{Token: raw}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrNotRecipient)

	err = svc.Access().Authorize(file,
		Credentials{Claimed: userCarol, Token: raw}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrNotRecipient)
}

// A failed token check surfaces its own error: the caller learns the token
// was invalid, not that access was generically denied.
func TestAuthorize_TokenFailureSurfaced(t *testing.T) {
	svc, clk := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	err := svc.Access().Authorize(file,
		Credentials{Principal: userBob, Token: "garbage"}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrShareTokenInvalid)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	err = svc.Access().Authorize(file,
		Credentials{Principal: userBob, Token: raw}, types.PermissionRead)
	assert.ErrorIs(t, err, ErrShareTokenInvalid)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

// An expired token is denied even when a live grant entry still exists; the
// two expiries are checked independently.
func TestAuthorize_ExpiredTokenLiveGrant(t *testing.T) {
	svc, clk := newTestService(t, nil)
	file := seedFile(t, svc, "f1", ownerAlice)

	raw, err := svc.CreateGrant(ownerAlice, "f1", userBob,
		[]types.Permission{types.PermissionRead}, time.Hour)
	require.NoError(t, err)

	// Stretch the stored grant past the token's own expiry.
	_, err = svc.db.UpsertTokenGrant("f1", userBob, clk.Now().Add(48*time.Hour), clk.Now())
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)

	live, err := svc.db.HasLiveTokenGrant("f1", userBob, clk.Now())
	require.NoError(t, err)
	require.True(t, live)

	err = svc.Access().Authorize(file, Credentials{Principal: userBob, Token: raw}, types.PermissionRead)
	assert.Error(t, err)
}
