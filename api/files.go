package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peershare/peershare/internal/auth"
	"github.com/peershare/peershare/pkg/schemas"
	"github.com/peershare/peershare/pkg/services"
	"github.com/peershare/peershare/pkg/types"
)

const maxUploadSize = 512 << 20

func (a *API) UploadFile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		a.fail(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	description := r.FormValue("description")
	if description == "" {
		a.fail(w, http.StatusBadRequest, "description is required")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		a.fail(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer f.Close()

	out, err := a.srv.CreateFile(r.Context(), p.Email, header.Filename, description, f)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusCreated, out)
}

func (a *API) ListFiles(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	files, err := a.srv.ListFiles(p.Email)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, files)
}

func (a *API) GetFile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	file, err := a.srv.GetFileDetails(p.Email, chi.URLParam(r, "fileID"))
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, file)
}

func (a *API) UpdateFile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req schemas.FileUpdate
	if err := a.decode(r, &req); err != nil {
		a.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := a.srv.UpdateFile(p.Email, chi.URLParam(r, "fileID"), &req)
	if err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, out)
}

func (a *API) DeleteFile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	if err := a.srv.DeleteFile(p.Email, chi.URLParam(r, "fileID")); err != nil {
		a.error(w, err)
		return
	}
	a.ok(w, http.StatusOK, nil)
}

func (a *API) FileContent(w http.ResponseWriter, r *http.Request) {
	a.streamContent(w, r, types.PermissionRead, false)
}

func (a *API) DownloadFile(w http.ResponseWriter, r *http.Request) {
	a.streamContent(w, r, types.PermissionDownload, true)
}

// streamContent serves file bytes behind the access evaluator. Either a
// session identity with standing access or a presented share token with the
// required permission unlocks it. Anonymous token callers must also claim
// the recipient identity the token was issued for.
func (a *API) streamContent(w http.ResponseWriter, r *http.Request, perm types.Permission, attachment bool) {
	creds := services.Credentials{
		Token:   r.URL.Query().Get("token"),
		Claimed: r.URL.Query().Get("recipient"),
	}
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		creds.Principal = p.Email
	}

	rc, file, err := a.srv.FetchContent(r.Context(), creds, chi.URLParam(r, "fileID"), perm)
	if err != nil {
		a.error(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	}
	io.Copy(w, rc)
}
