package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// Permission is a single capability a share token can carry.
type Permission string

const (
	PermissionRead     Permission = "read"
	PermissionDownload Permission = "download"
)

func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionDownload
}

// ShareClaims are the claims embedded in a capability token. The Type
// discriminator keeps share tokens from being confused with session tokens
// signed by the same secret.
type ShareClaims struct {
	jwt.RegisteredClaims
	Type        string       `json:"type"`
	FileID      string       `json:"fileId"`
	Grantor     string       `json:"grantor"`
	Grantee     string       `json:"grantee"`
	Permissions []Permission `json:"permissions"`
}

func (c *ShareClaims) HasPermission(p Permission) bool {
	for _, perm := range c.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// SessionClaims are the claims of a login session token. Subject is the
// principal email.
type SessionClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
	Name string `json:"name"`
}

// AccessKind annotates how a principal can reach a file.
type AccessKind string

const (
	AccessOwner     AccessKind = "owner"
	AccessPermanent AccessKind = "shared-permanent"
	AccessTemporary AccessKind = "shared-temporary"
)
