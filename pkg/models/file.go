package models

import (
	"time"
)

// TokenGrant is the persisted half of a capability token: the store keeps
// only the recipient and expiry, never the signed token itself.
type TokenGrant struct {
	Recipient string    `msgpack:"recipient" json:"recipient"`
	ExpiresAt time.Time `msgpack:"expiresAt" json:"expiresAt"`
}

// Live reports whether the grant is still acknowledged at the given instant.
// A grant expiring exactly now is already dead.
func (g TokenGrant) Live(now time.Time) bool {
	return g.ExpiresAt.After(now)
}

// File is the metadata record for one stored file. SharedWith is the
// permanent allow-list; TokenGrants backs temporary token shares, at most one
// entry per recipient.
type File struct {
	ID          string       `msgpack:"id" json:"id"`
	Name        string       `msgpack:"name" json:"name"`
	Description string       `msgpack:"description" json:"description"`
	Owner       string       `msgpack:"owner" json:"owner"`
	CID         string       `msgpack:"cid" json:"cid"`
	SharedWith  []string     `msgpack:"sharedWith" json:"sharedWith"`
	TokenGrants []TokenGrant `msgpack:"tokenGrants" json:"tokenGrants"`
	CreatedAt   time.Time    `msgpack:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `msgpack:"updatedAt" json:"updatedAt"`
}

func (f *File) IsOwner(principal string) bool {
	return principal != "" && f.Owner == principal
}

func (f *File) IsAllowListed(principal string) bool {
	if principal == "" {
		return false
	}
	for _, p := range f.SharedWith {
		if p == principal {
			return true
		}
	}
	return false
}

// LiveTokenGrant returns the recipient's grant if one exists and has not
// expired. Expiry is evaluated here, not cached, so lookups stay correct
// between reaper sweeps.
func (f *File) LiveTokenGrant(recipient string, now time.Time) (TokenGrant, bool) {
	for _, g := range f.TokenGrants {
		if g.Recipient == recipient && g.Live(now) {
			return g, true
		}
	}
	return TokenGrant{}, false
}
