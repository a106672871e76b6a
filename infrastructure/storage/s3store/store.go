package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/config"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// s3API is the slice of the S3 client the store depends on; tests substitute
// their own implementation.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is the object-store capability over one S3 bucket.
type Store struct {
	client s3API
	bucket string
}

// New builds a store from the default AWS credential chain.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading aws config")
	}
	return &Store{client: s3.NewFromConfig(awsCfg), bucket: cfg.AWS.ArtifactsBucket}, nil
}

// NewWithClient wires an explicit client, used by tests.
func NewWithClient(client s3API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Bucket returns the bucket the store operates on.
func (s *Store) Bucket() string {
	return s.bucket
}

// List returns every key under the prefix, sorted ascending.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "listing s3://%s/%s", s.bucket, prefix)
		}
		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Get reads one object fully into memory.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, pkgerrors.Wrapf(ErrObjectNotFound, "s3://%s/%s", s.bucket, key)
		}
		return nil, pkgerrors.Wrapf(err, "reading s3://%s/%s", s.bucket, key)
	}
	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading body of s3://%s/%s", s.bucket, key)
	}
	return body, nil
}

// Put writes one object, overwriting any previous value under the key.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "writing s3://%s/%s", s.bucket, key)
	}

	logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Debug("object written")
	return nil
}

// UploadFile copies a local file into the bucket with atomic visibility: the
// object is first written under a temporary key and then server-side copied
// into place, so a cancelled or failed transfer never leaves a partial object
// at the final key.
func (s *Store) UploadFile(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "opening %s", localPath)
	}
	defer file.Close()

	tempKey := fmt.Sprintf("%s.tmp-%s", key, uuid.New().String())

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(tempKey),
		Body:        file,
		ContentType: aws.String("application/gzip"),
	}); err != nil {
		return pkgerrors.Wrapf(err, "uploading s3://%s/%s", s.bucket, tempKey)
	}

	if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", s.bucket, tempKey)),
		Key:        aws.String(key),
	}); err != nil {
		s.deleteQuietly(ctx, tempKey)
		return pkgerrors.Wrapf(err, "promoting s3://%s/%s", s.bucket, tempKey)
	}

	s.deleteQuietly(ctx, tempKey)

	logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Info("artifact uploaded")
	return nil
}

func (s *Store) deleteQuietly(ctx context.Context, key string) {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("could not delete temporary object")
	}
}
