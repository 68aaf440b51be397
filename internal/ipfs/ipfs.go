// Package ipfs is a thin client for the content-addressed storage
// collaborator: an IPFS node's HTTP API. The backend stores only content
// references (CIDs); bytes live in the node.
package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient takes the node API base, e.g. "http://localhost:5001/api/v0".
// The endpoint is injected configuration; there are no ambient defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type addResponse struct {
	Hash string `json:"Hash"`
	Cid  string `json:"Cid"`
}

// Add streams the file to the node and returns its CID.
func (c *Client) Add(ctx context.Context, name string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/add", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ipfs add: unexpected status %s", resp.Status)
	}

	var out addResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ipfs add: decode response: %w", err)
	}
	cid := out.Hash
	if cid == "" {
		cid = out.Cid
	}
	if cid == "" {
		return "", fmt.Errorf("ipfs add: response carried no cid")
	}
	return cid, nil
}

// Cat opens the bytes behind a CID. The caller owns the returned reader.
func (c *Client) Cat(ctx context.Context, cid string) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/cat?arg=%s", c.endpoint, url.QueryEscape(cid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ipfs cat %s: unexpected status %s", cid, resp.Status)
	}
	return resp.Body, nil
}
