package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// AWSProvider implements the ObjectStore interface using the AWS SDK.
// It also serves the S3-compatible vendors (R2, Spaces, Wasabi) through a
// custom endpoint.
type AWSProvider struct {
	client  *s3.Client
	presign *s3.PresignClient
	config  *StoreConfig
}

// NewAWSProvider creates a new AWS-backed provider.
func NewAWSProvider(cfg *StoreConfig) (*AWSProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, ErrMissingRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, NewStoreError("aws", "configure", "", "", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &AWSProvider{
		client:  client,
		presign: s3.NewPresignClient(client),
		config:  cfg,
	}, nil
}

// Upload writes data under key with upsert disabled: an existence probe runs
// before the PUT and an occupied key is an error. Keys embed a millisecond
// timestamp, so the probe is a defensive guard, not a correctness mechanism.
func (p *AWSProvider) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if bucket == "" {
		return ErrMissingBucket
	}
	if len(data) == 0 {
		return ErrEmptyObject
	}

	uploadCtx, cancel := context.WithTimeout(ctx, p.config.UploadTimeout)
	defer cancel()

	_, err := p.client.HeadObject(uploadCtx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return NewStoreError("aws", "upload", bucket, key, ErrObjectExists)
	}
	// Probe failures other than 404 must not block the write.

	_, err = p.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return NewStoreError("aws", "upload", bucket, key, err)
	}

	return nil
}

// PublicURL returns the public URL for accessing the object.
func (p *AWSProvider) PublicURL(bucket, key string) string {
	return p.config.ObjectURL(bucket, key)
}

// SignedURL returns a presigned GET URL with the given expiry.
func (p *AWSProvider) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", NewStoreError("aws", "presign_get", bucket, key, err)
	}

	return req.URL, nil
}

// SignedUploadURL returns a presigned PUT URL with the given expiry.
func (p *AWSProvider) SignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", NewStoreError("aws", "presign_put", bucket, key, err)
	}

	return req.URL, nil
}

// ObjectInfo retrieves metadata about an object.
func (p *AWSProvider) ObjectInfo(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	head, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, NewStoreError("aws", "head_object", bucket, key, ErrObjectNotFound)
		}
		return nil, NewStoreError("aws", "head_object", bucket, key, err)
	}

	return &ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(head.ContentLength),
		ETag:         aws.ToString(head.ETag),
		ContentType:  aws.ToString(head.ContentType),
		LastModified: aws.ToTime(head.LastModified),
		Metadata:     head.Metadata,
	}, nil
}

// DeleteObject removes an object from storage.
func (p *AWSProvider) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return NewStoreError("aws", "delete", bucket, key, err)
	}

	return nil
}

// HealthCheck verifies bucket access.
func (p *AWSProvider) HealthCheck(ctx context.Context, bucket string) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return NewStoreError("aws", "health_check", bucket, "", err)
	}

	return nil
}
