package ipfs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeNode(t *testing.T) (*Client, map[string][]byte) {
	t.Helper()
	blobs := map[string][]byte{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/add", func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		cid := "Qm" + string(rune('a'+len(blobs)))
		blobs[cid] = data
		w.Write([]byte(`{"Hash":"` + cid + `"}`))
	})
	mux.HandleFunc("/api/v0/cat", func(w http.ResponseWriter, r *http.Request) {
		data, ok := blobs[r.URL.Query().Get("arg")]
		if !ok {
			http.Error(w, "not found", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v0", 5*time.Second), blobs
}

func TestAddAndCat(t *testing.T) {
	client, _ := newFakeNode(t)
	ctx := context.Background()

	cid, err := client.Add(ctx, "hello.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.NotEmpty(t, cid)

	rc, err := client.Cat(ctx, cid)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestCat_Missing(t *testing.T) {
	client, _ := newFakeNode(t)

	_, err := client.Cat(context.Background(), "QmMissing")
	assert.Error(t, err)
}
