// Package netx holds small HTTP helpers shared by services.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUploadTimeout bounds a presigned upload when the caller's context
// has no deadline of its own.
const DefaultUploadTimeout = 2 * time.Minute

// Uploader PUTs bodies to presigned object-storage URLs.
type Uploader struct {
	Client *http.Client
}

func NewUploader() *Uploader {
	return &Uploader{Client: &http.Client{Timeout: DefaultUploadTimeout}}
}

// PutPresigned uploads body to url with the given content type. Any 2xx
// status counts as success.
func (u *Uploader) PutPresigned(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
