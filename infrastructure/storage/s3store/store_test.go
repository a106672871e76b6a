package s3store

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

// fakeS3 is an in-memory s3API implementation.
type fakeS3 struct {
	objects map[string][]byte
	calls   []string

	copyErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.calls = append(f.calls, "list")

	var contents []types.Object
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	return &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls = append(f.calls, "get "+aws.ToString(params.Key))

	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls = append(f.calls, "put "+aws.ToString(params.Key))

	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.calls = append(f.calls, "copy "+aws.ToString(params.Key))

	if f.copyErr != nil {
		return nil, f.copyErr
	}

	source := aws.ToString(params.CopySource)
	sourceKey := source[strings.Index(source, "/")+1:]
	f.objects[aws.ToString(params.Key)] = f.objects[sourceKey]
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.calls = append(f.calls, "delete "+aws.ToString(params.Key))

	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestListSortsKeys(t *testing.T) {
	fake := newFakeS3()
	fake.objects["prefix/2026-08-28/a.json"] = []byte("{}")
	fake.objects["prefix/2026-08-26/a.json"] = []byte("{}")
	fake.objects["other/2026-08-27/a.json"] = []byte("{}")

	store := NewWithClient(fake, "test-bucket")
	keys, err := store.List(context.Background(), "prefix/")

	assert.NoError(t, err)
	assert.Equal(t, []string{
		"prefix/2026-08-26/a.json",
		"prefix/2026-08-28/a.json",
	}, keys)
}

func TestGetNotFound(t *testing.T) {
	store := NewWithClient(newFakeS3(), "test-bucket")

	_, err := store.Get(context.Background(), "missing.json")

	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestPutAndGetRoundTrip(t *testing.T) {
	store := NewWithClient(newFakeS3(), "test-bucket")

	err := store.Put(context.Background(), "audit.json", []byte(`{"run_id":"r1"}`), "application/json")
	assert.NoError(t, err)

	body, err := store.Get(context.Background(), "audit.json")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"run_id":"r1"}`), body)
}

func TestUploadFilePromotesViaTemporaryKey(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "artifact.tar.gz")
	assert.NoError(t, os.WriteFile(localPath, []byte("bundle-bytes"), 0o644))

	fake := newFakeS3()
	store := NewWithClient(fake, "test-bucket")

	err := store.UploadFile(context.Background(), localPath, "models/artifact.tar.gz")
	assert.NoError(t, err)

	assert.Equal(t, []byte("bundle-bytes"), fake.objects["models/artifact.tar.gz"])
	assert.Len(t, fake.objects, 1, "temporary key is removed after promotion")

	// put to temp key, copy to final, delete temp
	assert.Len(t, fake.calls, 3)
	assert.True(t, strings.HasPrefix(fake.calls[0], "put models/artifact.tar.gz.tmp-"))
	assert.Equal(t, "copy models/artifact.tar.gz", fake.calls[1])
	assert.True(t, strings.HasPrefix(fake.calls[2], "delete models/artifact.tar.gz.tmp-"))
}

func TestUploadFileFailedPromotionLeavesNoFinalObject(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "artifact.tar.gz")
	assert.NoError(t, os.WriteFile(localPath, []byte("bundle-bytes"), 0o644))

	fake := newFakeS3()
	fake.copyErr = &smithy.GenericAPIError{Code: "InternalError", Message: "copy failed"}
	store := NewWithClient(fake, "test-bucket")

	err := store.UploadFile(context.Background(), localPath, "models/artifact.tar.gz")

	assert.Error(t, err)
	_, exists := fake.objects["models/artifact.tar.gz"]
	assert.False(t, exists, "no partial object at the final key")
	assert.Empty(t, fake.objects, "temporary object cleaned up on failure")
}
