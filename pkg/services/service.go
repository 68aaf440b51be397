// Package services holds the sharing service, access evaluator and the
// supporting auth/file operations. All mutation authorization happens here;
// the store beneath is a dumb ledger.
package services

import (
	"time"

	"github.com/peershare/peershare/config"
	"github.com/peershare/peershare/internal/cache"
	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/internal/ipfs"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/store"
)

const fileCacheTTL = 5 * time.Minute

type ApiService struct {
	db     *store.Store
	cnf    *config.Config
	cache  cache.Cacher
	codec  *token.Codec
	ipfs   *ipfs.Client
	clock  clock.Clock
	access *Evaluator
}

func NewApiService(db *store.Store, cnf *config.Config, cacher cache.Cacher,
	codec *token.Codec, ipfsClient *ipfs.Client, clk clock.Clock) *ApiService {
	if clk == nil {
		clk = clock.System()
	}
	return &ApiService{
		db:     db,
		cnf:    cnf,
		cache:  cacher,
		codec:  codec,
		ipfs:   ipfsClient,
		clock:  clk,
		access: NewEvaluator(db, codec, clk),
	}
}

// Access exposes the evaluator for callers gating non-service operations.
func (a *ApiService) Access() *Evaluator {
	return a.access
}

// getFile reads through the cache; every mutating path must invalidate the
// corresponding key.
func (a *ApiService) getFile(id string) (*models.File, error) {
	file, err := cache.Fetch(a.cache, cache.KeyFile(id), fileCacheTTL, func() (models.File, error) {
		f, err := a.db.GetFile(id)
		if err != nil {
			return models.File{}, err
		}
		return *f, nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (a *ApiService) invalidateFile(id string) {
	a.cache.Delete(cache.KeyFile(id))
}
