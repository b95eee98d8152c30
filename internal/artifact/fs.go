// Package artifact stores rendered reports and serves them back by URL.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid artifact name")

// Uploader stores a buffer under a per-owner folder and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, folder, name string, data []byte) (string, error)
}

// Config locates the artifact tree.
type Config struct {
	// Root is the directory artifacts are written under.
	Root string `toml:"root"`
	// BaseURL is the public prefix the tree is served from.
	BaseURL string `toml:"base_url"`
}

// FSStore keeps artifacts on the local filesystem under root/<folder>/.
// File names carry a content hash so re-uploading identical bytes is a no-op
// and different renders never overwrite each other.
type FSStore struct {
	root    string
	baseURL string
}

// NewFSStore creates root if needed.
func NewFSStore(cfg Config) (*FSStore, error) {
	if cfg.Root == "" {
		return nil, errors.New("artifact root is required")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FSStore{root: filepath.Clean(cfg.Root), baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// Put writes data atomically and returns the public URL.
func (s *FSStore) Put(ctx context.Context, folder, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder, err := cleanSegment(folder)
	if err != nil {
		return "", err
	}
	name, err = cleanSegment(name)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	file := hex.EncodeToString(sum[:8]) + "-" + name
	dst := filepath.Join(s.root, folder, file)

	if _, err := os.Stat(dst); err != nil {
		if err := AtomicWriteFile(dst, data, 0o644); err != nil {
			return "", fmt.Errorf("write artifact: %w", err)
		}
	}
	return s.PublicURL(folder, file), nil
}

// PublicURL joins the base URL with folder and file.
func (s *FSStore) PublicURL(folder, file string) string {
	p := path.Join("/", url.PathEscape(folder), url.PathEscape(file))
	return s.baseURL + p
}

// Handler serves the tree read-only without directory listings.
func (s *FSStore) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// FolderFor maps an owner id to a stable folder name that is always a valid
// path segment and does not reveal the id in public URLs.
func FolderFor(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:8])
}

// cleanSegment accepts a single path element made of safe characters.
func cleanSegment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			r == '-' || r == '_' || r == '.') {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
		}
	}
	return s, nil
}
