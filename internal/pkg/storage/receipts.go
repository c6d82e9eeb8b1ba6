package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

// ReceiptStore wraps the S3 client for transaction receipt attachments
type ReceiptStore struct {
	s3Client  *s3.Client
	presigner *s3.PresignClient
	config    *Config
}

// NewReceiptStore creates the S3-backed receipt store
func NewReceiptStore(cfg *Config) (*ReceiptStore, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("receipt storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	store := &ReceiptStore{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		config:    cfg,
	}

	if err := store.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[Storage] Successfully initialized receipt store for bucket: %s", cfg.BucketName)
	return store, nil
}

// testConnection checks the bucket and creates it outside production
func (s *ReceiptStore) testConnection() error {
	ctx := context.Background()

	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.config.BucketName),
	})

	if err != nil {
		if GetAppEnv() != "prod" {
			log.Warnf("[Storage] Bucket %s not found, attempting to create it", s.config.BucketName)
			return s.createBucket(s.config.BucketName)
		}
		return fmt.Errorf("bucket %s not accessible: %w", s.config.BucketName, err)
	}

	return nil
}

func (s *ReceiptStore) createBucket(bucketName string) error {
	ctx := context.Background()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}

	// AWS regions other than us-east-1 need a location constraint;
	// S3-compatible endpoints do not accept one
	if s.config.EndpointURL == "" && s.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.config.Region),
		}
	}

	_, err := s.s3Client.CreateBucket(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}

	log.Infof("[Storage] Successfully created bucket: %s", bucketName)
	return nil
}

// UploadReceipt streams one uploaded receipt into the bucket
func (s *ReceiptStore) UploadReceipt(ctx context.Context, objectKey string, body io.Reader, size int64, filename string) error {
	contentType := receiptContentType(filepath.Ext(filename))

	log.Infof("[Storage] Uploading receipt s3://%s/%s (%d bytes)", s.config.BucketName, objectKey, size)

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-source":     "gestorpro-receipt",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload receipt to S3: %w", err)
	}

	return nil
}

// PresignReceiptURL returns a temporary GET URL for viewing a receipt
func (s *ReceiptStore) PresignReceiptURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign receipt URL: %w", err)
	}
	return req.URL, nil
}

// DeleteReceipt removes a receipt object
func (s *ReceiptStore) DeleteReceipt(ctx context.Context, objectKey string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete receipt from S3: %w", err)
	}

	log.Infof("[Storage] Deleted receipt s3://%s/%s", s.config.BucketName, objectKey)
	return nil
}

// ReceiptExists checks whether a receipt object is present
func (s *ReceiptStore) ReceiptExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check receipt existence: %w", err)
	}
	return true, nil
}

// AllowedReceiptExtension reports whether a receipt file type is accepted
func AllowedReceiptExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".pdf":
		return true
	default:
		return false
	}
}

func receiptContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
