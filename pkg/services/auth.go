package services

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/peershare/peershare/internal/auth"
	"github.com/peershare/peershare/internal/cache"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/store"
)

// SignUp creates an account and returns a fresh session token.
func (a *ApiService) SignUp(name, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    a.clock.Now(),
	}
	if err := a.db.CreateUser(user); err != nil {
		if store.IsKeyConflictErr(err) {
			return "", newError(http.StatusConflict, ErrUserExists)
		}
		return "", err
	}
	return a.newSession(user)
}

// LogIn verifies credentials and returns a session token. Unknown accounts
// and wrong passwords are indistinguishable to the caller.
func (a *ApiService) LogIn(email, password string) (string, error) {
	user, err := a.db.GetUser(email)
	if err != nil {
		if store.IsNotFoundErr(err) {
			return "", newError(http.StatusUnauthorized, ErrInvalidCredentials)
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", newError(http.StatusUnauthorized, ErrInvalidCredentials)
	}
	return a.newSession(user)
}

func (a *ApiService) newSession(user *models.User) (string, error) {
	return auth.EncodeSession(a.cnf.JWT.Secret,
		auth.Principal{Email: user.Email, Name: user.Name},
		a.clock, a.cnf.JWT.SessionTTL)
}

// ResolvePrincipal verifies a session token and confirms the account still
// exists, reading through the user cache.
func (a *ApiService) ResolvePrincipal(raw string) (auth.Principal, error) {
	p, err := auth.DecodeSession(a.cnf.JWT.Secret, raw, a.clock)
	if err != nil {
		return auth.Principal{}, newError(http.StatusUnauthorized, err)
	}
	user, err := cache.Fetch(a.cache, cache.KeyUser(p.Email), fileCacheTTL, func() (models.User, error) {
		u, err := a.db.GetUser(p.Email)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		if store.IsNotFoundErr(err) {
			return auth.Principal{}, newError(http.StatusUnauthorized, auth.ErrInvalidSession)
		}
		return auth.Principal{}, err
	}
	return auth.Principal{Email: user.Email, Name: user.Name}, nil
}
