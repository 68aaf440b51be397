package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peershare/peershare/config"
	"github.com/peershare/peershare/internal/cache"
	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/internal/ipfs"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/models"
	"github.com/peershare/peershare/pkg/store"
)

const (
	ownerAlice = "alice@x.com"
	userBob    = "bob@x.com"
	userCarol  = "carol@x.com"
)

func newTestService(t *testing.T, ipfsClient *ipfs.Client) (*ApiService, *clock.Fake) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "peershare.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	codec, err := token.NewCodec("test-secret-key", clk)
	require.NoError(t, err)

	cnf := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret-key", SessionTTL: time.Hour},
	}

	svc := NewApiService(db, cnf, cache.NewMemoryCache(0), codec, ipfsClient, clk)
	return svc, clk
}

func seedFile(t *testing.T, svc *ApiService, id, owner string) *models.File {
	t.Helper()
	now := svc.clock.Now()
	file := &models.File{
		ID:        id,
		Name:      id + ".txt",
		Owner:     owner,
		CID:       "Qm" + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, svc.db.CreateFile(file))
	return file
}
