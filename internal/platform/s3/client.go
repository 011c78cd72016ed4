package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Options configures a Client.
type Options struct {
	// Endpoint overrides the AWS endpoint. Custom endpoints are addressed
	// path-style, which every S3-compatible server accepts.
	Endpoint string
	Region   string

	// AccessKey and SecretKey select static credentials. When both are
	// empty the default credential chain applies.
	AccessKey string
	SecretKey string
}

// Client uploads run reports to an S3-compatible bucket.
type Client struct {
	api    *s3.Client
	region string
}

// NewClient creates a Client from opts.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		provider := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(provider))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})
	return &Client{api: api, region: awsCfg.Region}, nil
}

// Region is the region requests are signed for.
func (c *Client) Region() string {
	return c.region
}

// EnsureBucket creates bucket unless it already exists. A bucket created
// concurrently by the same account counts as existing.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
		return nil
	case !isMissingBucket(err):
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}

	_, err = c.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil && !isOwnedBucket(err) {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// PutObject uploads data under key.
func (c *Client) PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, bucket, err)
	}
	return nil
}

// errorCode returns the S3 error code of err, or "" for transport errors.
// S3-compatible servers do not always produce the SDK's typed errors, so
// the generic API error code is the fallback.
func errorCode(err error) string {
	var (
		noSuchBucket *types.NoSuchBucket
		notFound     *types.NotFound
		owned        *types.BucketAlreadyOwnedByYou
		exists       *types.BucketAlreadyExists
		apiErr       smithy.APIError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &noSuchBucket):
		return "NoSuchBucket"
	case errors.As(err, &notFound):
		return "NotFound"
	case errors.As(err, &owned):
		return "BucketAlreadyOwnedByYou"
	case errors.As(err, &exists):
		return "BucketAlreadyExists"
	case errors.As(err, &apiErr):
		return apiErr.ErrorCode()
	}
	return ""
}

func isMissingBucket(err error) bool {
	switch errorCode(err) {
	case "NoSuchBucket", "NotFound", "404":
		return true
	}
	return false
}

func isOwnedBucket(err error) bool {
	switch errorCode(err) {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return true
	}
	return false
}
