package static

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// ErrorPageName is the file served for unrecognized GET paths.
const ErrorPageName = "error.html"

// Provider serves site files from a directory on disk.
type Provider struct {
	dir string
}

// NewProvider creates a provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Content returns the bytes and MIME type of the named file. Unknown
// extensions fall back to text/plain.
func (p *Provider) Content(name string) ([]byte, string, error) {
	path := filepath.Join(p.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read static file %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "text/plain"
	}

	return data, mimeType, nil
}

// ErrorPage returns the not-found page's bytes and MIME type.
func (p *Provider) ErrorPage() ([]byte, string, error) {
	return p.Content(ErrorPageName)
}
