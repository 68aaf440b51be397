package api

import (
	"net/http"
	"time"

	"github.com/peershare/peershare/internal/auth"
	"github.com/peershare/peershare/pkg/schemas"
)

func (a *API) CreateGrant(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req schemas.CreateGrantRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := a.srv.CreateGrant(p.Email, req.FileID, req.Recipient,
		req.Permissions, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, schemas.GrantOut{ShareToken: token})
}

func (a *API) RevokeGrant(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req schemas.RevokeGrantRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	file, err := a.srv.RevokeGrant(p.Email, req.FileID, req.Recipient)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, schemas.ToFileOut(file))
}

func (a *API) VerifyShare(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	raw := r.URL.Query().Get("token")
	if raw == "" {
		a.fail(w, http.StatusBadRequest, "share token is required")
		return
	}
	desc, err := a.srv.VerifyAndDescribe(p.Email, raw)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, desc)
}

func (a *API) ListAccessible(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	files, err := a.srv.ListAccessible(p.Email)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, files)
}

func (a *API) AddAllowList(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req schemas.AllowListRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	file, err := a.srv.ShareWithList(p.Email, req.FileID, req.Recipients)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, schemas.ToFileOut(file))
}

func (a *API) RemoveAllowList(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req schemas.AllowListRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	file, err := a.srv.Unshare(p.Email, req.FileID, req.Recipients)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, schemas.ToFileOut(file))
}
