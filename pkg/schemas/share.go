package schemas

import (
	"time"

	"github.com/peershare/peershare/pkg/types"
)

type CreateGrantRequest struct {
	FileID      string             `json:"fileId" validate:"required"`
	Recipient   string             `json:"recipient" validate:"required,email"`
	Permissions []types.Permission `json:"permissions" validate:"omitempty,dive,oneof=read download"`
	TTLSeconds  int64              `json:"ttlSeconds" validate:"omitempty,gt=0"`
}

type GrantOut struct {
	ShareToken string `json:"shareToken"`
}

type RevokeGrantRequest struct {
	FileID    string `json:"fileId" validate:"required"`
	Recipient string `json:"recipient" validate:"required,email"`
}

type AllowListRequest struct {
	FileID     string   `json:"fileId" validate:"required"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

// ShareDescriptor is what a verified token discloses about its target file.
type ShareDescriptor struct {
	FileID      string             `json:"fileId"`
	Name        string             `json:"fileName"`
	CID         string             `json:"cid"`
	Owner       string             `json:"owner"`
	Permissions []types.Permission `json:"permissions"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

// AccessibleFile annotates a reachable file with how it is reached.
type AccessibleFile struct {
	File       FileOut          `json:"file"`
	AccessKind types.AccessKind `json:"accessKind"`
	ExpiresAt  *time.Time       `json:"expiresAt,omitempty"`
}
