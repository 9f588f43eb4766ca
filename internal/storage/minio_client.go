package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogfront/internal/config"
)

// ImageStore keeps processed blog images and hands back their public URL.
// Identical bytes map to the same URL.
type ImageStore interface {
	UploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, string, error)
}

type MinIOClient struct {
	client *minio.Client
	cfg    config.MinIO
	now    func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	m := &MinIOClient{client: client, cfg: cfg, now: time.Now}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.cfg.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.cfg.BucketName, minio.MakeBucketOptions{Region: m.cfg.Region})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.cfg.BucketName, err)
	}

	log.Printf("Created bucket %s", m.cfg.BucketName)
	return nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, string, error) {
	objectName := ObjectName(contentType, data)

	_, err := m.client.PutObject(ctx, m.cfg.BucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       m.now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return objectName, PublicURL(m.cfg.PublicURL, m.cfg.BucketName, objectName), nil
}

// ObjectName lays images out as blogs/<uuid><ext>, the uuid being derived
// from the content so an upload of the same picture lands on the same object.
// Objects are never removed: another blog may point at the same one.
func ObjectName(contentType string, data []byte) string {
	return fmt.Sprintf("blogs/%s%s", uuid.NewSHA1(uuid.NameSpaceURL, data).String(), extensionFor(contentType))
}

func PublicURL(base, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, objectName)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
