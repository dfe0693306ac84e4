package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"travelguide/internal/config"
	"travelguide/internal/models"
)

// Archiver сохраняет экспортный документ во внешнем хранилище
type Archiver interface {
	Upload(ctx context.Context, doc *models.Document) error
}

// S3Archiver - реализация Archiver поверх S3-совместимого хранилища (MinIO).
// Документ кладется под фиксированным ключом exports/locations.json и
// дополнительно в датированную копию.
type S3Archiver struct {
	client *minio.Client
	bucket string
	logger *logrus.Logger
}

// NewS3Archiver создает клиент MinIO и убеждается, что бакет существует
func NewS3Archiver(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*S3Archiver, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.ExportBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.ExportBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.ExportBucket, err)
		}
	}

	logger.WithField("endpoint", cfg.MinioEndpoint).Info("Successfully connected to MinIO")
	return &S3Archiver{
		client: client,
		bucket: cfg.ExportBucket,
		logger: logger,
	}, nil
}

// Upload загружает экспортный документ в бакет
func (a *S3Archiver) Upload(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal export document: %w", err)
	}

	keys := []string{
		"exports/locations.json",
		fmt.Sprintf("exports/locations-%s.json", time.Now().UTC().Format("20060102T150405")),
	}
	for _, key := range keys {
		_, err := a.client.PutObject(
			ctx,
			a.bucket,
			key,
			bytes.NewReader(data),
			int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/json"},
		)
		if err != nil {
			return fmt.Errorf("failed to store export in S3 under %q: %w", key, err)
		}
	}

	a.logger.WithField("bucket", a.bucket).Debug("Export document archived")
	return nil
}
