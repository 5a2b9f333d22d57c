package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"talentflow/internal/utils"
)

// Source opens artifact locations for reading.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// StoreConfig configures the object store used for s3:// and minio://
// locations.
type StoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

var objectSchemes = []string{"s3://", "minio://"}

// IsObjectLocation reports whether location names an object-store object.
func IsObjectLocation(location string) bool {
	for _, scheme := range objectSchemes {
		if strings.HasPrefix(location, scheme) {
			return true
		}
	}
	return false
}

// ParseObjectLocation splits scheme://bucket/key into bucket and key.
func ParseObjectLocation(location string) (bucket, key string, err error) {
	rest := location
	for _, scheme := range objectSchemes {
		if strings.HasPrefix(location, scheme) {
			rest = strings.TrimPrefix(location, scheme)
			break
		}
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("object location %q must look like s3://bucket/key", location)
	}
	return bucket, key, nil
}

// FileSource reads artifacts from the local filesystem.
type FileSource struct{}

func (FileSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	if err := utils.ValidateInputFile(location, 0); err != nil {
		return nil, err
	}
	return os.Open(location)
}

// ObjectSource reads artifacts from a MinIO or S3 compatible store.
type ObjectSource struct {
	client *minio.Client
}

// NewObjectSource creates a client with static credentials.
func NewObjectSource(cfg StoreConfig) (*ObjectSource, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &ObjectSource{client: client}, nil
}

func (s *ObjectSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseObjectLocation(location)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}
	// GetObject is lazy; Stat surfaces a missing object before any read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", location, err)
	}
	return obj, nil
}

// Router dispatches object-store locations to Objects and everything else
// to Files.
type Router struct {
	Files   Source
	Objects Source
}

// NewSource returns a Router. The object store client is only created when
// an endpoint is configured.
func NewSource(cfg StoreConfig) (*Router, error) {
	r := &Router{Files: FileSource{}}
	if cfg.Endpoint != "" {
		objects, err := NewObjectSource(cfg)
		if err != nil {
			return nil, err
		}
		r.Objects = objects
	}
	return r, nil
}

func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsObjectLocation(location) {
		if r.Objects == nil {
			return nil, fmt.Errorf("%s requires an object store, but none is configured", location)
		}
		return r.Objects.Open(ctx, location)
	}
	files := r.Files
	if files == nil {
		files = FileSource{}
	}
	return files.Open(ctx, location)
}
