package export

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/adw777/sql-chat/internal/config"
)

// uploader is the slice of the object-store client the archive needs, kept
// narrow so tests can substitute a fake.
type uploader interface {
	Put(ctx context.Context, bucket, key, contentType, localPath string) error
}

// Archive copies exported result files into an S3-compatible bucket.
type Archive struct {
	client uploader
	bucket string
	prefix string
}

func NewArchive(cfg config.ArchiveConfig) (*Archive, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("archive endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	endpoint, secure, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: strings.TrimSpace(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("create archive client: %w", err)
	}
	return &Archive{
		client: &minioUploader{client: client},
		bucket: strings.TrimSpace(cfg.Bucket),
		prefix: cleanPrefix(cfg.Prefix),
	}, nil
}

// NewArchiveWithUploader wires a custom uploader; used by tests.
func NewArchiveWithUploader(bucket, prefix string, client uploader) (*Archive, error) {
	if client == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Archive{client: client, bucket: strings.TrimSpace(bucket), prefix: cleanPrefix(prefix)}, nil
}

// UploadFile stores localPath in the bucket under prefix/basename.
func (a *Archive) UploadFile(ctx context.Context, localPath string) error {
	key := filepath.Base(localPath)
	if a.prefix != "" {
		key = path.Join(a.prefix, key)
	}
	if err := a.client.Put(ctx, a.bucket, key, contentTypeFor(localPath), localPath); err != nil {
		return fmt.Errorf("archive %q: %w", key, err)
	}
	return nil
}

func contentTypeFor(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".csv":
		return "text/csv"
	case ".parquet":
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

func cleanPrefix(prefix string) string {
	prefix = strings.TrimSpace(strings.TrimPrefix(prefix, "/"))
	if prefix == "" {
		return ""
	}
	prefix = path.Clean(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

func parseEndpoint(raw string, useSSL bool) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("endpoint is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("parse endpoint URL: %w", err)
		}
		if parsed.Host == "" {
			return "", false, fmt.Errorf("endpoint host is required")
		}
		if parsed.Scheme == "https" {
			return parsed.Host, true, nil
		}
		return parsed.Host, useSSL, nil
	}
	return raw, useSSL, nil
}

type minioUploader struct {
	client *minio.Client
}

func (m *minioUploader) Put(ctx context.Context, bucket, key, contentType, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat export file: %w", err)
	}
	_, err = m.client.PutObject(ctx, bucket, key, file, stat.Size(), minio.PutObjectOptions{ContentType: contentType})
	return err
}
