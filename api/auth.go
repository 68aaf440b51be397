package api

import (
	"net/http"
	"time"

	"github.com/peershare/peershare/internal/auth"
	"github.com/peershare/peershare/pkg/schemas"
)

func (a *API) SignUp(w http.ResponseWriter, r *http.Request) {
	var req schemas.SignUpRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := a.srv.SignUp(req.Name, req.Email, req.Password)
	if err != nil {
		a.error(w, err)
		return
	}
	a.setSessionCookie(w, token)
	a.ok(w, http.StatusCreated, schemas.SessionOut{Email: req.Email, Name: req.Name})
}

func (a *API) LogIn(w http.ResponseWriter, r *http.Request) {
	var req schemas.LogInRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := a.srv.LogIn(req.Email, req.Password)
	if err != nil {
		a.error(w, err)
		return
	}
	a.setSessionCookie(w, token)
	a.ok(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) Session(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	a.ok(w, http.StatusOK, schemas.SessionOut{Email: p.Email, Name: p.Name})
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	a.ok(w, http.StatusOK, nil)
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := a.cnf.JWT.SessionTTL
	if ttl <= 0 {
		ttl = auth.SessionTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
