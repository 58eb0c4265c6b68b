package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Uploader copies files between the local filesystem and a Backend.
// Transfers report success as a bool and log their own failures.
type Uploader struct {
	backend Backend
	fs      afero.Fs
	timeout time.Duration
	log     *log.Logger
}

// NewUploader returns an uploader. A zero timeout means no deadline beyond ctx.
func NewUploader(backend Backend, fs afero.Fs, timeout time.Duration, logger *log.Logger) *Uploader {
	return &Uploader{backend: backend, fs: fs, timeout: timeout, log: logger}
}

// UploadFile copies source into bucket/destination.
// Any failure is logged once at error level and reported as false.
func (u *Uploader) UploadFile(ctx context.Context, bucket, source, destination string) bool {
	if err := u.upload(ctx, bucket, source, destination); err != nil {
		u.log.ErrorWithFields(logrus.Fields{
			"source":      source,
			"bucket":      bucket,
			"destination": destination,
		}, "Fail to upload %s to %s. Detail %v", source, bucket, err)
		return false
	}
	u.log.Info("File %s uploaded to %s/%s.", source, bucket, destination)
	return true
}

func (u *Uploader) upload(ctx context.Context, bucket, source, destination string) error {
	f, err := u.fs.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer func() { _ = f.Close() }()

	if fi, err := f.Stat(); err == nil && fi.IsDir() {
		return fmt.Errorf("%s is a directory", source)
	}

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	w := u.backend.NewWriter(ctx, bucket, destination)
	if _, err := io.Copy(w, f); err != nil {
		// cancel first so the partial object is discarded rather than committed
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to copy %s: %w", source, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s/%s: %w", bucket, destination, err)
	}
	return nil
}

// DownloadFile copies bucket/object into the local file destination.
// Any failure is logged once at error level and reported as false.
func (u *Uploader) DownloadFile(ctx context.Context, bucket, object, destination string) bool {
	if err := u.download(ctx, bucket, object, destination); err != nil {
		u.log.ErrorWithFields(logrus.Fields{
			"object":      object,
			"bucket":      bucket,
			"destination": destination,
		}, "Fail to download %s from %s. Detail %v", object, bucket, err)
		return false
	}
	u.log.Info("File %s/%s downloaded to %s.", bucket, object, destination)
	return true
}

func (u *Uploader) download(ctx context.Context, bucket, object, destination string) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	r, err := u.backend.NewReader(ctx, bucket, object)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	f, err := u.fs.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destination, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = u.fs.Remove(destination)
		return fmt.Errorf("failed to copy %s/%s: %w", bucket, object, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", destination, err)
	}
	return nil
}

// List returns the objects in bucket under prefix
func (u *Uploader) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	objects, err := u.backend.Objects(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	u.log.Debug("Listed %d objects in %s/%s", len(objects), bucket, prefix)
	return objects, nil
}

func (u *Uploader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}
