// Package r2 stores relay objects in Cloudflare R2 through its S3 compatible API.
package r2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bananamirror/relay"
)

// DefaultRegion is the region R2 expects from S3 clients.
const DefaultRegion = "auto"

// Config holds the R2 account credentials.
type Config struct {
	AccountID       string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// UsePathStyle addresses buckets as endpoint/bucket instead of bucket.endpoint.
	UsePathStyle bool
}

// EndpointURL returns the explicit endpoint, or the account endpoint when none is set.
func (c Config) EndpointURL() (string, error) {
	if endpoint := strings.TrimSpace(c.Endpoint); endpoint != "" {
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		return endpoint, nil
	}
	if c.AccountID == "" {
		return "", fmt.Errorf("r2: account id or endpoint is required: %w", relay.ErrConfiguration)
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID), nil
}

// NewClient builds an S3 client for the R2 account.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	endpoint, err := cfg.EndpointURL()
	if err != nil {
		return nil, err
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("r2: access key id and secret access key are required: %w", relay.ErrConfiguration)
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("r2: load config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}), nil
}

// Bucket is one R2 bucket.
type Bucket struct {
	client *s3.Client
	name   string
}

// NewBucket returns a Bucket named name using client.
func NewBucket(client *s3.Client, name string) *Bucket {
	return &Bucket{client: client, name: name}
}

// Put stores data under key, replacing any existing object.
func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("r2: put %s/%s: %w", b.name, key, err)
	}
	return nil
}

// Delete removes keys in one batch. Missing keys are not an error.
func (b *Bucket) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.name),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("r2: delete from %s: %w", b.name, err)
	}

	if len(out.Errors) > 0 {
		errs := make([]error, 0, len(out.Errors))
		for _, e := range out.Errors {
			errs = append(errs, fmt.Errorf("%s: %s: %s", aws.ToString(e.Key), aws.ToString(e.Code), aws.ToString(e.Message)))
		}
		return fmt.Errorf("r2: delete from %s: %w", b.name, errors.Join(errs...))
	}

	return nil
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
