package services

import (
	"net/http"
	"sort"
	"time"

	"github.com/peershare/peershare/internal/logging"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/schemas"
	"github.com/peershare/peershare/pkg/store"
	"github.com/peershare/peershare/pkg/types"
	"go.uber.org/zap"
)

var defaultPermissions = []types.Permission{types.PermissionRead, types.PermissionDownload}

// CreateGrant mints a share token for recipient and persists the matching
// grant tuple. The token itself is never stored: a lost token means the
// recipient asks for a new share.
func (a *ApiService) CreateGrant(actor, fileID, recipient string, perms []types.Permission, ttl time.Duration) (string, error) {
	file, err := a.fileForOwner(actor, fileID)
	if err != nil {
		return "", err
	}
	if len(perms) == 0 {
		perms = defaultPermissions
	}
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}

	raw, err := a.codec.Issue(file.ID, actor, recipient, perms, ttl)
	if err != nil {
		return "", err
	}

	expiresAt := a.clock.Now().Add(ttl)
	if _, err := a.db.UpsertTokenGrant(file.ID, recipient, expiresAt, a.clock.Now()); err != nil {
		return "", err
	}
	a.invalidateFile(file.ID)

	logging.DefaultLogger().Info("share grant created",
		zap.String("file", file.ID),
		zap.String("grantor", actor),
		zap.String("grantee", recipient),
		zap.Time("expiresAt", expiresAt))
	return raw, nil
}

// RevokeGrant removes the recipient's token grant. Any outstanding token for
// that grant keeps a valid signature but stops working immediately.
func (a *ApiService) RevokeGrant(actor, fileID, recipient string) (*models.File, error) {
	file, err := a.fileForOwner(actor, fileID)
	if err != nil {
		return nil, err
	}
	updated, err := a.db.RemoveTokenGrant(file.ID, recipient, a.clock.Now())
	if err != nil {
		return nil, err
	}
	a.invalidateFile(file.ID)
	return updated, nil
}

// VerifyAndDescribe decodes a presented token for its grantee and describes
// the target file. The live-grant re-check makes a revoked share invisible
// even to this read-only endpoint.
func (a *ApiService) VerifyAndDescribe(actor, raw string) (*schemas.ShareDescriptor, error) {
	claims, err := a.codec.Decode(raw)
	if err != nil {
		logging.DefaultLogger().Debug("share token verify failed", zap.Error(err))
		return nil, newError(http.StatusUnauthorized, ErrShareTokenInvalid)
	}
	if actor != claims.Grantee {
		return nil, newError(http.StatusUnauthorized, ErrNotRecipient)
	}

	file, err := a.getFile(claims.FileID)
	if err != nil {
		if store.IsNotFoundErr(err) {
			return nil, newError(http.StatusNotFound, ErrFileNotFound)
		}
		return nil, err
	}

	live, err := a.db.HasLiveTokenGrant(file.ID, claims.Grantee, a.clock.Now())
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, newError(http.StatusUnauthorized, ErrShareTokenInvalid)
	}

	return &schemas.ShareDescriptor{
		FileID:      file.ID,
		Name:        file.Name,
		CID:         file.CID,
		Owner:       file.Owner,
		Permissions: claims.Permissions,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// ListAccessible returns every file the principal can reach: owned,
// allow-listed, or backed by a live token grant. Expired grants are pruned
// first so stale entries never appear.
func (a *ApiService) ListAccessible(principal string) ([]schemas.AccessibleFile, error) {
	now := a.clock.Now()
	if _, err := a.db.PruneExpired(now); err != nil {
		return nil, err
	}

	var out []schemas.AccessibleFile
	err := a.db.ForEachFile(func(f *models.File) error {
		switch {
		case f.IsOwner(principal):
			out = append(out, schemas.AccessibleFile{File: *schemas.ToFileOut(f), AccessKind: types.AccessOwner})
		case f.IsAllowListed(principal):
			out = append(out, schemas.AccessibleFile{File: *schemas.ToFileOut(f), AccessKind: types.AccessPermanent})
		default:
			if grant, ok := f.LiveTokenGrant(principal, now); ok {
				expires := grant.ExpiresAt
				out = append(out, schemas.AccessibleFile{
					File:       *schemas.ToFileOut(f),
					AccessKind: types.AccessTemporary,
					ExpiresAt:  &expires,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File.Name < out[j].File.Name })
	return out, nil
}

// ShareWithList unions recipients into the permanent allow-list.
func (a *ApiService) ShareWithList(actor, fileID string, recipients []string) (*models.File, error) {
	file, err := a.fileForOwner(actor, fileID)
	if err != nil {
		return nil, err
	}
	updated, err := a.db.AddAllowList(file.ID, recipients, a.clock.Now())
	if err != nil {
		return nil, err
	}
	a.invalidateFile(file.ID)
	return updated, nil
}

// Unshare removes recipients from the allow-list. Token grants are a
// separate mechanism and stay untouched.
func (a *ApiService) Unshare(actor, fileID string, recipients []string) (*models.File, error) {
	file, err := a.fileForOwner(actor, fileID)
	if err != nil {
		return nil, err
	}
	updated, err := a.db.RemoveAllowList(file.ID, recipients, a.clock.Now())
	if err != nil {
		return nil, err
	}
	a.invalidateFile(file.ID)
	return updated, nil
}

// fileForOwner resolves the file and enforces that actor owns it.
func (a *ApiService) fileForOwner(actor, fileID string) (*models.File, error) {
	file, err := a.getFile(fileID)
	if err != nil {
		if store.IsNotFoundErr(err) {
			return nil, newError(http.StatusNotFound, ErrFileNotFound)
		}
		return nil, err
	}
	if !file.IsOwner(actor) {
		return nil, newError(http.StatusForbidden, ErrNotOwner)
	}
	return file, nil
}
