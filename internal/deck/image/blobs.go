// Package image manages the locally scoped card images and renders share
// QR codes. A blob stored here is exactly the kind of reference the share
// codec flags as non-durable: it lives on this machine only.
package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/statdeck/statdeck/internal/platform/id"
)

// maxEdge bounds ingested images. Card faces are small; storing full-size
// photography just bloats the blob directory.
const maxEdge = 512

// BlobStore keeps ingested card images as bounded JPEG files.
type BlobStore struct {
	dir string
}

// NewBlobStore opens (creating if needed) a blob directory.
func NewBlobStore(dir string) (*BlobStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	cleanDir := filepath.Clean(dir)
	if err := os.MkdirAll(cleanDir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &BlobStore{dir: cleanDir}, nil
}

// Ingest loads an image file, bounds it to the card face size, stores the
// result, and returns the opaque blob handle for the card's image reference.
func (s *BlobStore) Ingest(sourcePath string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("blob store is not configured")
	}

	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxEdge || bounds.Dy() > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	handle, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate blob handle: %w", err)
	}
	handle += ".jpg"

	if err := imaging.Save(img, filepath.Join(s.dir, handle), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return handle, nil
}

// Path resolves a blob handle to its file on disk.
func (s *BlobStore) Path(handle string) string {
	return filepath.Join(s.dir, filepath.Base(handle))
}

// Remove deletes a stored blob. A missing blob is not an error.
func (s *BlobStore) Remove(handle string) error {
	err := os.Remove(s.Path(handle))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
