package filestore

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// GCS fetches uploaded files from Google Cloud Storage. References use
// the gs://bucket/object form.
type GCS struct {
	client *storage.Client
}

var _ interfaces.FileStore = &GCS{}

// NewGCS creates a GCS-backed file store
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCS{client: client}, nil
}

// Fetch downloads the object referenced by a gs:// URI
func (s *GCS) Fetch(ctx context.Context, ref string) ([]byte, error) {
	trimmed, ok := strings.CutPrefix(ref, "gs://")
	if !ok {
		return nil, goerr.New("file reference must start with gs://", goerr.V("ref", ref))
	}

	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || object == "" {
		return nil, goerr.New("file reference missing object path", goerr.V("ref", ref))
	}

	reader, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open uploaded file", goerr.V("ref", ref))
	}
	defer safe.Close(ctx, reader)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read uploaded file", goerr.V("ref", ref))
	}
	return data, nil
}

// Close releases the storage client
func (s *GCS) Close() error {
	return s.client.Close()
}
