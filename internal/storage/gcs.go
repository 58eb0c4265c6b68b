package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/ibs-source/bucket-manifest/internal/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS is the Cloud Storage backend. Credentials come from Application Default Credentials
// unless opts say otherwise.
type GCS struct {
	client      *gcs.Client
	chunkSize   int
	contentType string
}

// NewGCS creates a Cloud Storage client
func NewGCS(ctx context.Context, cfg *config.StorageConfig, opts ...option.ClientOption) (*GCS, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{
		client:      client,
		chunkSize:   cfg.ChunkSize,
		contentType: cfg.ContentType,
	}, nil
}

// NewWriter returns a writer for bucket/object. The object is committed on Close;
// cancelling ctx before Close abandons it.
func (g *GCS) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ChunkSize = g.chunkSize
	w.ContentType = g.contentType
	return w
}

// NewReader opens bucket/object for reading
func (g *GCS) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	return r, nil
}

// Objects lists every object in bucket whose name starts with prefix
func (g *GCS) Objects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	it := g.client.Bucket(bucket).Objects(ctx, &gcs.Query{Prefix: prefix})

	var objects []ObjectInfo
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", bucket, prefix, err)
		}
		objects = append(objects, objectInfo(attrs))
	}
	return objects, nil
}

func objectInfo(attrs *gcs.ObjectAttrs) ObjectInfo {
	acl := make([]string, 0, len(attrs.ACL))
	for _, rule := range attrs.ACL {
		acl = append(acl, string(rule.Entity))
	}
	return ObjectInfo{
		Name:    attrs.Name,
		Size:    attrs.Size,
		MD5:     hex.EncodeToString(attrs.MD5),
		ACL:     acl,
		Updated: attrs.Updated,
	}
}

// Close releases the client
func (g *GCS) Close() error {
	return g.client.Close()
}

var _ Backend = (*GCS)(nil)
