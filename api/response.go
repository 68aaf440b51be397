package api

import (
	"encoding/json"
	"net/http"

	"github.com/peershare/peershare/pkg/services"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (a *API) ok(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func (a *API) fail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Success: false, Message: message})
}

// error maps a service error to the envelope. Internal failures log detail
// server-side and show the caller a generic message.
func (a *API) error(w http.ResponseWriter, err error) {
	code := services.HTTPStatus(err)
	if services.IsInternal(err) {
		a.lg.Errorw("request failed", "err", err)
		a.fail(w, code, "An error has occurred, please try again later")
		return
	}
	a.fail(w, code, err.Error())
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
