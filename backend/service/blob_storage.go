package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidBlobPath is returned for handles that would resolve outside the
// uploads directory.
var ErrInvalidBlobPath = errors.New("invalid blob path")

// BlobStorage keeps uploaded archives as flat files under one directory.
// The handle stored in model.File.Path is the file name relative to Root.
type BlobStorage struct {
	root string
}

func NewBlobStorage(root string) (*BlobStorage, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload path %s: %w", root, err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", absRoot, err)
	}
	return &BlobStorage{root: absRoot}, nil
}

func (b *BlobStorage) Root() string {
	return b.root
}

// blobName builds "<unix-millis>-<random>-<original-name>".
func blobName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), random, base)
}

// Save writes r to a new blob named after originalName and returns its
// handle and size. A partially written blob is removed on error.
func (b *BlobStorage) Save(originalName string, r io.Reader) (string, int64, error) {
	name := blobName(originalName)
	fullPath := filepath.Join(b.root, name)
	out, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create blob %s: %w", name, err)
	}
	size, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(fullPath)
		return "", 0, fmt.Errorf("write blob %s: %w", name, copyErr)
	}
	return name, size, nil
}

func (b *BlobStorage) resolve(handle string) (string, error) {
	if handle == "" || filepath.Base(handle) != handle {
		return "", ErrInvalidBlobPath
	}
	fullPath := filepath.Join(b.root, handle)
	if !strings.HasPrefix(filepath.Clean(fullPath), b.root+string(os.PathSeparator)) {
		return "", ErrInvalidBlobPath
	}
	return fullPath, nil
}

// Open returns the blob for reading; os.ErrNotExist is preserved.
func (b *BlobStorage) Open(handle string) (*os.File, error) {
	fullPath, err := b.resolve(handle)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

func (b *BlobStorage) Exists(handle string) bool {
	fullPath, err := b.resolve(handle)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// Remove unlinks the blob. A blob that is already gone is not an error.
func (b *BlobStorage) Remove(handle string) error {
	fullPath, err := b.resolve(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
