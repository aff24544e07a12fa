// Package blob is an HTTP client for the external blob store, which exposes
// store and delete operations over a plain REST API.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pulse-social/pulse/pkg/media"
)

var _ media.BlobStore = (*Client)(nil)

type Client struct {
	http *resty.Client
}

func NewClient(baseUrl, apiKey string) *Client {
	client := resty.New().
		SetBaseURL(baseUrl).
		SetAuthToken(apiKey).
		SetTimeout(time.Second * 10).
		SetRetryCount(2)

	return &Client{http: client}
}

type storeResponse struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

func (c *Client) Store(ctx context.Context, name, mimeType string, data []byte) (media.Blob, error) {
	var out storeResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetMultipartField("mime_type", "", "text/plain", bytes.NewReader([]byte(mimeType))).
		SetResult(&out).
		Post("/blobs")
	if err != nil {
		return media.Blob{}, err
	}
	if resp.IsError() {
		return media.Blob{}, fmt.Errorf("blob store returned %s", resp.Status())
	}

	return media.Blob{
		Id:  out.Id,
		Url: out.Url,
	}, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/blobs/" + id)
	if err != nil {
		return err
	}

	// An absent blob is already deleted.
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("blob store returned %s", resp.Status())
	}
	return nil
}
