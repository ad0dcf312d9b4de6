// Package storage provides the object-storage collaborator used to host
// image binaries: an S3 implementation and a presigned-URL HTTP one.
package storage

import "context"

// ObjectStorage uploads a binary under a caller-chosen key and returns a
// publicly resolvable URL for the stored object.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
