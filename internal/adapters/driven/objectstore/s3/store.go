// Package s3 provides an object store over an Amazon S3 bucket.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// Client is the part of the S3 API this adapter calls.
// *s3.Client satisfies it.
type Client interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds configuration for the S3 object store.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// Prefix restricts listing to keys under this prefix.
	Prefix string
}

// ObjectStore lists and reads objects from one bucket, optionally under
// a key prefix.
type ObjectStore struct {
	client Client
	bucket string
	prefix string
}

// NewObjectStore creates an S3 object store. The client carries region
// and credentials; build it with s3.NewFromConfig.
func NewObjectStore(client Client, cfg Config) (*ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// List pages through the bucket and returns every object key and size.
func (o *ObjectStore) List(ctx context.Context) ([]driven.ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(o.bucket),
	}
	if o.prefix != "" {
		input.Prefix = aws.String(o.prefix)
	}

	var objects []driven.ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(o.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list bucket %s: %w", o.bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			info := driven.ObjectInfo{Key: *obj.Key}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}

// Get reads the raw bytes of one object.
func (o *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", o.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read s3://%s/%s: %w", o.bucket, key, err)
	}
	return data, nil
}

// Close releases resources.
func (o *ObjectStore) Close() error {
	// The SDK client holds no connections that need explicit cleanup
	return nil
}
