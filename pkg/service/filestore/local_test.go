package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/impel-lab/compass/pkg/service/filestore"
	"github.com/m-mizutani/gt"
)

func TestLocalFetch(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(base, "resume.txt"), []byte("resume body"), 0o644)).Required()

	store, err := filestore.NewLocal(base)
	gt.NoError(t, err).Required()

	t.Run("reads files under the base directory", func(t *testing.T) {
		data, err := store.Fetch(ctx, "resume.txt")
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("resume body")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := store.Fetch(ctx, "nope.txt")
		gt.Error(t, err)
	})

	t.Run("traversal outside the base directory is rejected", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(base), "secret.txt")
		gt.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644)).Required()

		_, err := store.Fetch(ctx, "../secret.txt")
		gt.Error(t, err)
	})
}

func TestNewLocal(t *testing.T) {
	_, err := filestore.NewLocal("")
	gt.Error(t, err)
}
