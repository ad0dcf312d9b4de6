// Package netx provides network-boundary helpers: a reachability probe used
// to derive the device's connectivity state, and a presigned-URL uploader for
// object storage backends that hand out PUT URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Checker probes a well-known endpoint to decide whether the backend is
// reachable. A probe failure after retries means offline.
type Checker struct {
	probeURL string
	client   *http.Client
}

// NewChecker returns a Checker probing the given URL. Probes use short
// timeouts; an unreachable backend should be detected quickly.
func NewChecker(probeURL string) *Checker {
	return &Checker{
		probeURL: probeURL,
		client:   &http.Client{Timeout: 3 * time.Second},
	}
}

// Online reports backend reachability. Transient probe errors are retried
// twice with fibonacci backoff before the device is declared offline.
func (c *Checker) Online(ctx context.Context) bool {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		resp.Body.Close()
		return nil
	})

	return err == nil
}

// UploadToPresignedURL PUTs file to a presigned object-storage URL with the
// declared content type.
func UploadToPresignedURL(ctx context.Context, url, contentType string, file []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(file))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
