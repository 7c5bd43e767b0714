package artifact

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ObjectGetter downloads a bucket object to a local file.
type ObjectGetter interface {
	FGetObject(ctx context.Context, bucket, object, filePath string, opts minio.GetObjectOptions) error
}

// BucketConfig holds S3-compatible connection settings for snapshot sync.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// BucketSync mirrors the snapshot files from a bucket into the artifact directory.
type BucketSync struct {
	client ObjectGetter
	bucket string
	prefix string
	log    *logrus.Logger
}

// NewBucketSync creates a BucketSync backed by a MinIO client.
func NewBucketSync(cfg BucketConfig, log *logrus.Logger) (*BucketSync, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return NewBucketSyncWithClient(mc, cfg.Bucket, cfg.Prefix, log), nil
}

// NewBucketSyncWithClient creates a BucketSync around an existing client.
func NewBucketSyncWithClient(client ObjectGetter, bucket, prefix string, log *logrus.Logger) *BucketSync {
	return &BucketSync{client: client, bucket: bucket, prefix: prefix, log: log}
}

// Sync downloads every known snapshot file into dir. Objects missing from the
// bucket are skipped; other failures are logged and the file is left as is.
// It returns the number of files downloaded.
func (b *BucketSync) Sync(ctx context.Context, dir string) int {
	downloaded := 0

	for _, name := range SnapshotFiles {
		if ctx.Err() != nil {
			return downloaded
		}

		object := path.Join(b.prefix, name)
		err := b.client.FGetObject(ctx, b.bucket, object, filepath.Join(dir, name), minio.GetObjectOptions{})
		if err == nil {
			downloaded++
			b.log.WithField("object", object).Debug("snapshot downloaded")
			continue
		}

		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			b.log.WithField("object", object).Debug("snapshot not in bucket")
			continue
		}

		b.log.WithError(err).WithField("object", object).Warn("snapshot download failed")
	}

	b.log.WithFields(logrus.Fields{
		"bucket":     b.bucket,
		"downloaded": downloaded,
	}).Info("snapshot sync complete")

	return downloaded
}
