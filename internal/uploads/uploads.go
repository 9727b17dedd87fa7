// Package uploads stores ticket image attachments in S3-compatible object
// storage and validates files before they leave the client's hands.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxImageSize is the per-file attachment cap.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage checks size and content type of an attachment. The declared
// content type must be an allowed image type and must agree with the sniffed
// bytes.
func ValidateImage(filename, contentType string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty file")
	}
	if len(data) > MaxImageSize {
		return fmt.Errorf("file exceeds %d MB limit", MaxImageSize/(1024*1024))
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("unsupported file type %q: only jpeg, png, gif, webp images are accepted", contentType)
	}

	sniffed := http.DetectContentType(data)
	if _, ok := allowedImageTypes[sniffed]; !ok {
		return fmt.Errorf("file content does not look like a supported image (%s)", sniffed)
	}
	return nil
}

// Config holds the object storage settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL, when set, is used to build attachment URLs directly;
	// otherwise presigned URLs are issued.
	PublicBaseURL string
}

// Store writes attachments to a minio bucket.
type Store struct {
	client        *minio.Client
	bucket        string
	region        string
	publicBaseURL string
	initOnce      sync.Once
	initErr       error
}

// NewStore creates an attachment store.
func NewStore(cfg Config) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("object storage credentials are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}

	return &Store{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put validates and stores one attachment, returning the URL to reference it
// by in tickets.
func (s *Store) Put(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	if err := ValidateImage(filename, contentType, data); err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = allowedImageTypes[strings.ToLower(contentType)]
	}
	key := fmt.Sprintf("tickets/%s/%s%s", userID, uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + s.bucket + "/" + key, nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign attachment url: %w", err)
	}
	return u.String(), nil
}
