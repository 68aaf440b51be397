package models

import "time"

// User is an account known to the identity layer. Email doubles as the
// principal identifier everywhere else in the system.
type User struct {
	Email        string    `msgpack:"email" json:"email"`
	Name         string    `msgpack:"name" json:"name"`
	PasswordHash []byte    `msgpack:"passwordHash" json:"-"`
	CreatedAt    time.Time `msgpack:"createdAt" json:"createdAt"`
}
