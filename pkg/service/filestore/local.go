package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Local serves uploaded files from a directory. Development backend.
type Local struct {
	baseDir string
}

var _ interfaces.FileStore = &Local{}

// NewLocal creates a directory-backed file store
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		return nil, goerr.New("base directory is required")
	}
	return &Local{baseDir: baseDir}, nil
}

// Fetch reads a file relative to the base directory. Path traversal
// outside the base directory is rejected.
func (s *Local) Fetch(ctx context.Context, ref string) ([]byte, error) {
	path := filepath.Join(s.baseDir, filepath.Clean("/"+ref))
	if !strings.HasPrefix(path, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return nil, goerr.New("file reference escapes base directory", goerr.V("ref", ref))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read uploaded file", goerr.V("ref", ref))
	}
	return data, nil
}
