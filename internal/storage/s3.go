package storage

import (
	"bitwise74/media-api/internal/model"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const minMultipartSize = 12 << 20

type S3Store struct {
	C *s3.Client

	// Maps the buckets users pick from to the real S3 bucket names
	Buckets map[model.Bucket]string
}

// NewS3Store checks that every mapped bucket exists before returning the store
func NewS3Store(ctx context.Context, c *s3.Client, buckets map[model.Bucket]string) (*S3Store, error) {
	for logical, name := range buckets {
		_, err := c.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(name),
		})
		if err != nil {
			var apiErr smithy.APIError

			if errors.As(err, &apiErr) {
				if apiErr.ErrorCode() == "NotFound" {
					return nil, fmt.Errorf("bucket '%s' (%s) does not exist", name, logical)
				}
			}

			return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
		}
	}

	return &S3Store{
		C:       c,
		Buckets: buckets,
	}, nil
}

// Put uploads body under key. The request carries If-None-Match: * so S3
// refuses to replace an object that is already there.
func (s *S3Store) Put(ctx context.Context, bucket model.Bucket, key string, body io.Reader, size int64, contentType string) error {
	name, ok := s.Buckets[bucket]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	in := &s3.PutObjectInput{
		Bucket:      aws.String(name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	}

	var err error
	if size > minMultipartSize {
		zap.L().Debug("Using multipart upload", zap.String("key", key), zap.Int64("size", size))

		uploader := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = uploader.Upload(ctx, in)
	} else {
		in.ContentLength = aws.Int64(size)
		_, err = s.C.PutObject(ctx, in)
	}
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, key)
		}

		return fmt.Errorf("failed to upload object to S3, %w", err)
	}

	return nil
}

func isConflict(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}

	return false
}
