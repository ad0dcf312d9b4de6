package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobdavies/creatuno/internal/netx"
)

// HTTPStorage implements ObjectStorage against a service that accepts PUTs at
// uploadURL/<key> (presigned-URL style) and serves objects at publicURL/<key>.
type HTTPStorage struct {
	uploadURL string
	publicURL string
}

// NewHTTPStorage returns an HTTPStorage. When publicURL is empty, objects are
// assumed to be served from the upload location.
func NewHTTPStorage(uploadURL, publicURL string) *HTTPStorage {
	if publicURL == "" {
		publicURL = uploadURL
	}
	return &HTTPStorage{
		uploadURL: strings.TrimSuffix(uploadURL, "/"),
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload PUTs data to the upload endpoint and returns the public URL.
func (s *HTTPStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	target := fmt.Sprintf("%s/%s", s.uploadURL, key)
	if err := netx.UploadToPresignedURL(ctx, target, contentType, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
