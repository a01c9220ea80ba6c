// Package storage keeps candidate documents in the S3-compatible bucket
// exposed by the Supabase storage API.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const maxDownloadBytes = 20 * 1024 * 1024

var ErrInvalidFileURL = errors.New("invalid file URL format")

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        []byte
}

type S3Store struct {
	client        objectAPI
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

func NewS3Store(ctx context.Context, cfg Config, logger *zap.Logger) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Store(client, cfg.Bucket, cfg.PublicBaseURL, logger), nil
}

func newS3Store(client objectAPI, bucket, publicBaseURL string, logger *zap.Logger) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func (s *S3Store) Bucket() string { return s.bucket }

// Upload writes body under key in the documents bucket.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Info("document uploaded", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

// PublicURL is <base>/<bucket>/<key>, the form ResolvePublicURL accepts.
func (s *S3Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
}

func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" {
		bucket = s.bucket
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Store) Download(ctx context.Context, bucket, key string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}

	return &Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		Body:        body,
	}, nil
}

// ResolvePublicURL splits a public object URL of the form
// .../public/<bucket>/<path> into bucket and key.
func ResolvePublicURL(fileURL string) (bucket, key string, err error) {
	u, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil || u.Path == "" {
		return "", "", ErrInvalidFileURL
	}

	parts := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i, p := range parts {
		if p != "public" || i+2 >= len(parts) {
			continue
		}
		bucket = parts[i+1]
		key, err = url.PathUnescape(strings.Join(parts[i+2:], "/"))
		if err != nil || bucket == "" || key == "" {
			return "", "", ErrInvalidFileURL
		}
		return bucket, key, nil
	}
	return "", "", ErrInvalidFileURL
}

// Extension returns the lower-cased extension of key without the dot.
func Extension(key string) string {
	i := strings.LastIndex(key, ".")
	if i < 0 || i == len(key)-1 || strings.Contains(key[i:], "/") {
		return ""
	}
	return strings.ToLower(key[i+1:])
}
