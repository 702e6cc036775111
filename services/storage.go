// services/storage.go
package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// PhotoStorage writes uploaded photo content somewhere retrievable and
// returns a URL for it. The rest of the system only keeps the tag pair and
// filename, never the bytes.
type PhotoStorage interface {
	Save(ctx context.Context, filename string, r io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// NewPhotoStorageFromEnv picks the storage backend: Google Cloud Storage
// when configured, local disk otherwise.
func NewPhotoStorageFromEnv() (PhotoStorage, error) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		return NewGCSStorage(os.Getenv("GCS_BUCKET"))
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	return NewLocalStorage(dir)
}

// LocalStorage keeps uploads on the local filesystem under a single
// directory and serves them at /uploads.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	// Timestamp prefix avoids collisions between same-named uploads
	name := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return "/uploads/" + name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	name := filepath.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the directory uploads are written to, for static serving.
func (s *LocalStorage) Dir() string { return s.dir }
