// Package storage transfers local files to and from Cloud Storage buckets.
package storage

//go:generate mockgen -destination=mocks/backend.go -package=mocks github.com/ibs-source/bucket-manifest/internal/storage Backend

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a listed object
type ObjectInfo struct {
	Name    string
	Size    int64
	MD5     string // hex encoded
	ACL     []string
	Updated time.Time
}

// Backend is the object store the uploader talks to
type Backend interface {
	NewWriter(ctx context.Context, bucket, object string) io.WriteCloser
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	Objects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	Close() error
}
