// AngelaMos | 2026
// s3.go

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/carterperez-dev/volunteer-hub/internal/config"
)

// S3Store keeps images in an S3 bucket. A custom endpoint switches to
// path-style addressing for MinIO.
type S3Store struct {
	client  *s3.S3
	bucket  string
	baseURL string
	maxSize int64
}

func NewS3Store(ctx context.Context, cfg config.S3Config, maxSize int64) (*S3Store, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
	}

	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!cfg.UseSSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	store := &S3Store{
		client:  s3.New(sess),
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		maxSize: maxSize,
	}

	if err := store.Ping(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *S3Store) Save(
	ctx context.Context,
	originalName, contentType string,
	r io.Reader,
) (string, error) {
	key, err := NewKey(originalName)
	if err != nil {
		return "", err
	}

	data, err := readLimited(r, s.maxSize)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(key, contentType)),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	return nil
}

func (s *S3Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}

func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %q: %w", s.bucket, err)
	}
	return nil
}

func publicBaseURL(cfg config.S3Config) string {
	if cfg.Endpoint != "" && !strings.Contains(cfg.Endpoint, "amazonaws.com") {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		host := strings.TrimPrefix(cfg.Endpoint, "http://")
		host = strings.TrimPrefix(host, "https://")
		return fmt.Sprintf("%s://%s/%s", protocol, strings.TrimSuffix(host, "/"), cfg.Bucket)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}
