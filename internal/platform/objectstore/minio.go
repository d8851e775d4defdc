// Package objectstore archives generated documents in S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds connection settings for the archive bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Enabled reports whether an endpoint and bucket are configured.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Archive stores PDFs under quotations/<id>.pdf.
type Archive struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("platform/objectstore: new client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("platform/objectstore: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("platform/objectstore: make bucket: %w", err)
		}
	}

	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

// ObjectName returns the key under which a lead's quotation is archived.
func ObjectName(leadID string) string {
	return "quotations/" + leadID + ".pdf"
}

// StorePDF uploads the rendered quotation, replacing any earlier copy.
func (a *Archive) StorePDF(ctx context.Context, leadID string, pdf []byte) error {
	if a == nil || a.client == nil {
		return nil
	}
	_, err := a.client.PutObject(ctx, a.bucket, ObjectName(leadID), bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("platform/objectstore: put %s: %w", leadID, err)
	}
	return nil
}
