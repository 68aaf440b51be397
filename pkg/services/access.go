package services

import (
	"net/http"

	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/internal/logging"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/store"
	"github.com/peershare/peershare/pkg/types"
	"go.uber.org/zap"
)

// Credentials bundles whatever a request presented: an authenticated
// principal, a bearer share token, or both. It is built once per request and
// passed explicitly. Claimed is the recipient identity an anonymous caller
// asserts alongside a token; it is ignored when a principal is present.
type Credentials struct {
	Principal string
	Claimed   string
	Token     string
}

// Evaluator decides allow/deny for a permission on a file. It is read-only:
// nothing here mutates the grant store.
type Evaluator struct {
	db    *store.Store
	codec *token.Codec
	clock clock.Clock
}

func NewEvaluator(db *store.Store, codec *token.Codec, clk clock.Clock) *Evaluator {
	return &Evaluator{db: db, codec: codec, clock: clk}
}

// Authorize returns nil to allow. Decision order: ownership, allow-list
// membership, then token grants. A token passes only when its signature and
// expiry hold, it names this file and this caller, it carries the permission,
// and the store still acknowledges the grant. The store check is what makes
// revocation effective against tokens that are still cryptographically valid.
// When a token was presented, its own failure is the answer: the caller must
// see invalid-token or wrong-recipient, not a generic denial.
func (e *Evaluator) Authorize(file *models.File, creds Credentials, perm types.Permission) error {
	if file.IsOwner(creds.Principal) {
		return nil
	}
	if file.IsAllowListed(creds.Principal) && perm.Valid() {
		return nil
	}
	if creds.Token != "" {
		return e.authorizeToken(file, creds, perm)
	}
	if creds.Principal == "" {
		return newError(http.StatusUnauthorized, ErrAuthRequired)
	}
	return newError(http.StatusForbidden, ErrAccessDenied)
}

func (e *Evaluator) authorizeToken(file *models.File, creds Credentials, perm types.Permission) error {
	claims, err := e.codec.Decode(creds.Token)
	if err != nil {
		logging.DefaultLogger().Debug("share token rejected",
			zap.String("file", file.ID), zap.Error(err))
		return newError(http.StatusUnauthorized, ErrShareTokenInvalid)
	}
	if claims.FileID != file.ID {
		return newError(http.StatusForbidden, ErrAccessDenied)
	}
	// A token is personal: the grantee must match the session identity, or
	// the recipient an anonymous caller claimed. A token alone, with nobody
	// claiming to be its recipient, unlocks nothing.
	identity := creds.Principal
	if identity == "" {
		identity = creds.Claimed
	}
	if identity == "" || claims.Grantee != identity {
		return newError(http.StatusUnauthorized, ErrNotRecipient)
	}
	if !claims.HasPermission(perm) {
		return newError(http.StatusForbidden, ErrAccessDenied)
	}
	live, err := e.db.HasLiveTokenGrant(file.ID, claims.Grantee, e.clock.Now())
	if err != nil {
		return err
	}
	if !live {
		return newError(http.StatusUnauthorized, ErrShareTokenInvalid)
	}
	return nil
}
