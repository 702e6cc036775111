// services/storage_gcs.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

// GCSStorage writes uploads to a Google Cloud Storage bucket and returns
// public object URLs.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(bucket string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET not set")
	}
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("photos/%s-%s", time.Now().Format("20060102-150405"), filepath.Base(filename))

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

func (s *GCSStorage) Delete(ctx context.Context, url string) error {
	name := "photos/" + filepath.Base(url)
	err := s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
