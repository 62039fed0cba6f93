// Package filestore keeps uploaded documents on the local filesystem and serves them back
// under a public base URL.
package filestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"tpts/internal/core/domain/model/kernel"
)

// Store implements ports.DocumentStorage. File names are generated; the uploaded name only
// contributes its extension.
type Store struct {
	dir     string
	baseURL string
	maxSize int64
}

func New(dir, baseURL string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir %s: %w", dir, err)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("document base url: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxSize: maxSize}, nil
}

func (s *Store) Store(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fileName := kernel.NewUUID().String() + extension(name, contentType)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, io.LimitReader(content, s.maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	if written > s.maxSize {
		return "", fmt.Errorf("store document: larger than %d bytes", s.maxSize)
	}

	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, fileName)); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return s.baseURL + "/" + fileName, nil
}

// extension keeps the uploaded extension when it agrees with the content type.
func extension(name, contentType string) string {
	given := strings.ToLower(filepath.Ext(name))
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			if slices.Contains(exts, given) {
				return given
			}
			return exts[0]
		}
	}
	return given
}
