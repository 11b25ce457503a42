// Package covers loads per-book cover images addressed by ISBN.
package covers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"strings"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/storage"
)

// DefaultExtension is appended to the ISBN to form the file name.
const DefaultExtension = ".jpg"

// Store reads covers from a storage.Provider. Nothing is cached: every call
// opens and decodes the file again.
type Store struct {
	files storage.Provider
	ext   string
}

// NewStore creates a cover store. An empty ext selects DefaultExtension.
func NewStore(files storage.Provider, ext string) *Store {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{files: files, ext: ext}
}

// Name returns the file name used for isbn.
func (s *Store) Name(isbn string) string {
	return strings.TrimSpace(isbn) + s.ext
}

// Cover returns the decoded image for isbn. A missing file yields
// apperr.ErrCoverNotFound.
func (s *Store) Cover(isbn string) (image.Image, error) {
	if strings.TrimSpace(isbn) == "" {
		return nil, fmt.Errorf("%w: empty isbn", apperr.ErrCoverNotFound)
	}
	name := s.Name(isbn)
	data, err := s.files.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrCoverNotFound, name)
		}
		return nil, fmt.Errorf("covers: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("covers: decode %s: %w", name, err)
	}
	return img, nil
}
