package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"tpts/internal/pkg/errs"
)

// Document is a file uploaded with a command, such as a proof-of-delivery photo.
type Document struct {
	Name        string
	ContentType string
	Content     []byte
}

func (d *Document) validate() error {
	if d == nil {
		return nil
	}
	if strings.TrimSpace(d.Name) == "" {
		return errs.NewValueIsRequiredError("document name")
	}
	if len(d.Content) == 0 {
		return errs.NewValueIsRequiredError("document content")
	}
	return nil
}

// storeDocument uploads d before the state transition runs and returns its URL, or ""
// when there is nothing to store.
func (rt Runtime) storeDocument(ctx context.Context, d *Document) (string, error) {
	if d == nil {
		return "", nil
	}
	if rt.Documents == nil {
		return "", errors.New("document storage is not configured")
	}

	url, err := rt.Documents.Store(ctx, d.Name, d.ContentType, bytes.NewReader(d.Content))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", d.Name, err)
	}
	return url, nil
}
