// Package s3 stores archived objects in an S3-compatible bucket via minio-go.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vbonduro/depositdefender/internal/archive"
)

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

type Archive struct {
	client     *minio.Client
	bucketName string
}

// New connects to the bucket, creating it when it does not exist yet.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	a, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	exists, err := a.client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.BucketName, err)
		}
		slog.Info("created archive bucket", "bucket", cfg.BucketName)
	}
	return a, nil
}

func newClient(cfg Config) (*Archive, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &Archive{client: client, bucketName: cfg.BucketName}, nil
}

func (a *Archive) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read object: %w", err)
	}
	key, err := archive.Key(prefix, mimeType, time.Now())
	if err != nil {
		return "", err
	}

	info, err := a.client.PutObject(ctx, a.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	slog.Debug("archived object", "key", key, "size", info.Size)
	return key, nil
}

func (a *Archive) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	stat, err := a.client.StatObject(ctx, a.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", mapErr(key, err)
	}
	obj, err := a.client.GetObject(ctx, a.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", mapErr(key, err)
	}
	mimeType := stat.ContentType
	if mimeType == "" {
		mimeType = archive.ExtToMIMEType(key)
	}
	return obj, mimeType, nil
}

func (a *Archive) Delete(ctx context.Context, key string) error {
	if _, err := a.client.StatObject(ctx, a.bucketName, key, minio.StatObjectOptions{}); err != nil {
		return mapErr(key, err)
	}
	if err := a.client.RemoveObject(ctx, a.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func mapErr(key string, err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.StatusCode == 404) {
		return fmt.Errorf("%s: %w", key, archive.ErrNotFound)
	}
	return fmt.Errorf("failed to access %s: %w", key, err)
}
