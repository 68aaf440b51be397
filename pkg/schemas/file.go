package schemas

import (
	"time"

	"github.com/peershare/peershare/pkg/models"
)

type FileUpdate struct {
	Description string `json:"description" validate:"required"`
}

type FileOut struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CID         string    `json:"cid"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToFileOut(f *models.File) *FileOut {
	return &FileOut{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Owner:       f.Owner,
		CID:         f.CID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
