// Package store is the durable ledger of file records: ownership, permanent
// allow-lists and token-backed grants. It is a dumb, consistent ledger;
// mutation authorization lives in the services layer above it.
package store

import (
	"bytes"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/peershare/peershare/pkg/models"
)

var (
	bucketFiles = []byte("files")
	bucketUsers = []byte("users")
)

type Store struct {
	db *bbolt.DB
}

// Open creates or opens the bolt database at path and ensures buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o666, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketFiles, bucketUsers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func decodeFile(data []byte) (*models.File, error) {
	var file models.File
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetFile returns the record for id or ErrNotFound.
func (s *Store) GetFile(id string) (*models.File, error) {
	var file *models.File
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		file, err = decodeFile(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// CreateFile persists a new record. The ID must be unique.
func (s *Store) CreateFile(file *models.File) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if b.Get([]byte(file.ID)) != nil {
			return ErrKeyConflict
		}
		data, err := msgpack.Marshal(file)
		if err != nil {
			return err
		}
		return b.Put([]byte(file.ID), data)
	})
}

func (s *Store) DeleteFile(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// mutateFile applies fn to the record inside a single write transaction,
// which is the unit of per-file atomicity for all grant mutations.
func (s *Store) mutateFile(id string, now time.Time, fn func(*models.File) error) (*models.File, error) {
	var file *models.File
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		file, err = decodeFile(data)
		if err != nil {
			return err
		}
		if err := fn(file); err != nil {
			return err
		}
		file.UpdatedAt = now
		out, err := msgpack.Marshal(file)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// UpdateFile rewrites mutable metadata (description only; ownership is
// immutable).
func (s *Store) UpdateFile(id, description string, now time.Time) (*models.File, error) {
	return s.mutateFile(id, now, func(f *models.File) error {
		f.Description = description
		return nil
	})
}

// AddAllowList unions principals into the allow-list. Duplicates collapse and
// the owner is never added; ownership already implies full access.
func (s *Store) AddAllowList(id string, principals []string, now time.Time) (*models.File, error) {
	return s.mutateFile(id, now, func(f *models.File) error {
		for _, p := range principals {
			if p == "" || p == f.Owner || f.IsAllowListed(p) {
				continue
			}
			f.SharedWith = append(f.SharedWith, p)
		}
		return nil
	})
}

// RemoveAllowList is a set difference; removing an absent principal is a
// no-op.
func (s *Store) RemoveAllowList(id string, principals []string, now time.Time) (*models.File, error) {
	drop := make(map[string]struct{}, len(principals))
	for _, p := range principals {
		drop[p] = struct{}{}
	}
	return s.mutateFile(id, now, func(f *models.File) error {
		kept := f.SharedWith[:0]
		for _, p := range f.SharedWith {
			if _, ok := drop[p]; !ok {
				kept = append(kept, p)
			}
		}
		f.SharedWith = kept
		return nil
	})
}

// UpsertTokenGrant replaces any existing entry for the recipient and appends
// the new one, so re-sharing refreshes expiry instead of accumulating
// entries. The owner never receives a grant.
func (s *Store) UpsertTokenGrant(id, recipient string, expiresAt, now time.Time) (*models.File, error) {
	return s.mutateFile(id, now, func(f *models.File) error {
		if recipient == f.Owner {
			return nil
		}
		kept := f.TokenGrants[:0]
		for _, g := range f.TokenGrants {
			if g.Recipient != recipient {
				kept = append(kept, g)
			}
		}
		f.TokenGrants = append(kept, models.TokenGrant{Recipient: recipient, ExpiresAt: expiresAt})
		return nil
	})
}

// RemoveTokenGrant drops the recipient's entry if present. This is the
// explicit revocation path.
func (s *Store) RemoveTokenGrant(id, recipient string, now time.Time) (*models.File, error) {
	return s.mutateFile(id, now, func(f *models.File) error {
		kept := f.TokenGrants[:0]
		for _, g := range f.TokenGrants {
			if g.Recipient != recipient {
				kept = append(kept, g)
			}
		}
		f.TokenGrants = kept
		return nil
	})
}

// HasLiveTokenGrant reports whether the store still acknowledges a grant for
// recipient at the given instant. Evaluated at read time; entries decay
// purely by clock.
func (s *Store) HasLiveTokenGrant(id, recipient string, now time.Time) (bool, error) {
	file, err := s.GetFile(id)
	if err != nil {
		return false, err
	}
	_, ok := file.LiveTokenGrant(recipient, now)
	return ok, nil
}

// PruneExpired removes every token grant across all files whose expiry is at
// or before now and returns the number removed. Safe to call redundantly.
func (s *Store) PruneExpired(now time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)

		// Collect rewrites first; mutating a bucket invalidates its cursor.
		updates := make(map[string][]byte)
		err := b.ForEach(func(k, v []byte) error {
			file, err := decodeFile(v)
			if err != nil {
				return err
			}
			kept := file.TokenGrants[:0]
			for _, g := range file.TokenGrants {
				if g.Live(now) {
					kept = append(kept, g)
				} else {
					removed++
				}
			}
			if len(kept) == len(file.TokenGrants) {
				return nil
			}
			file.TokenGrants = kept
			file.UpdatedAt = now
			out, err := msgpack.Marshal(file)
			if err != nil {
				return err
			}
			updates[string(bytes.Clone(k))] = out
			return nil
		})
		if err != nil {
			return err
		}
		for k, v := range updates {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ForEachFile streams every record through fn inside one read transaction.
func (s *Store) ForEachFile(fn func(*models.File) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(_, v []byte) error {
			file, err := decodeFile(v)
			if err != nil {
				return err
			}
			return fn(file)
		})
	})
}

// ListOwned returns all records owned by the principal.
func (s *Store) ListOwned(owner string) ([]models.File, error) {
	var files []models.File
	err := s.ForEachFile(func(f *models.File) error {
		if f.Owner == owner {
			files = append(files, *f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// CreateUser persists a new account keyed by email.
func (s *Store) CreateUser(user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		if b.Get([]byte(user.Email)) != nil {
			return ErrKeyConflict
		}
		data, err := msgpack.Marshal(user)
		if err != nil {
			return err
		}
		return b.Put([]byte(user.Email), data)
	})
}

func (s *Store) GetUser(email string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUsers).Get([]byte(email))
		if data == nil {
			return ErrNotFound
		}
		return msgpack.Unmarshal(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
