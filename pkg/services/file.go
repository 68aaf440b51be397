package services

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/peershare/peershare/internal/logging"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/schemas"
	"github.com/peershare/peershare/pkg/store"
	"github.com/peershare/peershare/pkg/types"
	"go.uber.org/zap"
)

// CreateFile pushes the bytes to the content store and records the metadata
// with the uploader as owner.
func (a *ApiService) CreateFile(ctx context.Context, owner, name, description string, content io.Reader) (*schemas.FileOut, error) {
	cid, err := a.ipfs.Add(ctx, name, content)
	if err != nil {
		return nil, err
	}
	now := a.clock.Now()
	file := &models.File{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Owner:       owner,
		CID:         cid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.db.CreateFile(file); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("file created",
		zap.String("file", file.ID), zap.String("owner", owner), zap.String("cid", cid))
	return schemas.ToFileOut(file), nil
}

// GetFileDetails returns full metadata; owner only.
func (a *ApiService) GetFileDetails(actor, fileID string) (*models.File, error) {
	return a.fileForOwner(actor, fileID)
}

// ListFiles returns metadata for every file the principal owns.
func (a *ApiService) ListFiles(owner string) ([]schemas.FileOut, error) {
	files, err := a.db.ListOwned(owner)
	if err != nil {
		return nil, err
	}
	out := make([]schemas.FileOut, 0, len(files))
	for i := range files {
		out = append(out, *schemas.ToFileOut(&files[i]))
	}
	return out, nil
}

// UpdateFile rewrites the description; ownership is immutable.
func (a *ApiService) UpdateFile(actor, fileID string, update *schemas.FileUpdate) (*schemas.FileOut, error) {
	if _, err := a.fileForOwner(actor, fileID); err != nil {
		return nil, err
	}
	file, err := a.db.UpdateFile(fileID, update.Description, a.clock.Now())
	if err != nil {
		return nil, err
	}
	a.invalidateFile(fileID)
	return schemas.ToFileOut(file), nil
}

// DeleteFile removes the metadata record. Grant state is embedded in the
// record, so nothing else needs cascading; the bytes stay with the content
// store.
func (a *ApiService) DeleteFile(actor, fileID string) error {
	if _, err := a.fileForOwner(actor, fileID); err != nil {
		return err
	}
	if err := a.db.DeleteFile(fileID); err != nil {
		return err
	}
	a.invalidateFile(fileID)
	return nil
}

// FetchContent authorizes the request through the access evaluator and opens
// the file bytes from the content store.
func (a *ApiService) FetchContent(ctx context.Context, creds Credentials, fileID string, perm types.Permission) (io.ReadCloser, *models.File, error) {
	file, err := a.getFile(fileID)
	if err != nil {
		if store.IsNotFoundErr(err) {
			return nil, nil, newError(http.StatusNotFound, ErrFileNotFound)
		}
		return nil, nil, err
	}
	if err := a.access.Authorize(file, creds, perm); err != nil {
		return nil, nil, err
	}
	rc, err := a.ipfs.Cat(ctx, file.CID)
	if err != nil {
		return nil, nil, err
	}
	return rc, file, nil
}
