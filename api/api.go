// Package api is the thin HTTP glue over the services layer: routing, typed
// request decoding and validation, and the response envelope.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peershare/peershare/config"
	"github.com/peershare/peershare/pkg/services"
)

const sessionCookie = "token"

type API struct {
	srv      *services.ApiService
	cnf      *config.Config
	lg       *zap.SugaredLogger
	validate *validator.Validate
}

func New(srv *services.ApiService, cnf *config.Config, lg *zap.SugaredLogger) *API {
	return &API{
		srv:      srv,
		cnf:      cnf,
		lg:       lg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decode unmarshals the JSON body into dst and validates it. A nil error
// means dst is safe to hand to the services layer.
func (a *API) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validate.Struct(dst)
}
