// Package source reads document sources into text for vectorization.
package source

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/text/encoding"

	"github.com/cognicore/hashvec/pkg/hashvec/analysis"
	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
)

// Reader resolves a document source (a file path, a key, a URL) to its text.
type Reader interface {
	Read(ctx context.Context, source string) (string, error)
}

// FileReader reads files from disk and decodes them with a charset.
type FileReader struct {
	enc encoding.Encoding
}

// NewFileReader creates a reader decoding files with the named charset.
// An empty charset means utf-8.
func NewFileReader(charset string) (*FileReader, error) {
	enc, err := analysis.LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	return &FileReader{enc: enc}, nil
}

// Read implements Reader.
func (r *FileReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}
	return analysis.Decode(data, r.enc), nil
}

// Static serves documents from memory, keyed by source name.
type Static map[string]string

// Read implements Reader.
func (s Static) Read(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := s[source]
	if !ok {
		return "", fmt.Errorf("source %q: %w", source, internalerr.ErrNotFound)
	}
	return text, nil
}
