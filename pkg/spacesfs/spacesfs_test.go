package spacesfs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3API implements S3API with per-method functions for testing.
type fakeS3API struct {
	headObjectFunc    func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	getObjectFunc     func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	putObjectFunc     func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	listObjectsV2Func func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

func (f *fakeS3API) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headObjectFunc != nil {
		return f.headObjectFunc(ctx, params, optFns...)
	}
	return nil, errors.New("headObjectFunc not implemented")
}

func (f *fakeS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getObjectFunc != nil {
		return f.getObjectFunc(ctx, params, optFns...)
	}
	return nil, errors.New("getObjectFunc not implemented")
}

func (f *fakeS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putObjectFunc != nil {
		return f.putObjectFunc(ctx, params, optFns...)
	}
	return nil, errors.New("putObjectFunc not implemented")
}

func (f *fakeS3API) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listObjectsV2Func != nil {
		return f.listObjectsV2Func(ctx, params, optFns...)
	}
	return nil, errors.New("listObjectsV2Func not implemented")
}

func testClient(api *fakeS3API) *Client {
	return NewWithAPI(api, slog.New(slog.DiscardHandler))
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "bucket and key", path: "docs-bucket/reports/a.pdf", wantBucket: "docs-bucket", wantKey: "reports/a.pdf"},
		{name: "bucket only", path: "docs-bucket", wantBucket: "docs-bucket", wantKey: ""},
		{name: "trailing slash", path: "docs-bucket/reports/", wantBucket: "docs-bucket", wantKey: "reports"},
		{name: "leading slash", path: "/docs-bucket/a.txt", wantBucket: "docs-bucket", wantKey: "a.txt"},
		{name: "empty", path: "", wantErr: true},
		{name: "only slashes", path: "///", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := splitPath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestExistsObject(t *testing.T) {
	api := &fakeS3API{
		headObjectFunc: func(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			assert.Equal(t, "docs-bucket", aws.ToString(params.Bucket))
			assert.Equal(t, "reports/a.pdf", aws.ToString(params.Key))
			return &s3.HeadObjectOutput{}, nil
		},
	}

	exists, err := testClient(api).Exists(context.Background(), "docs-bucket/reports/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsFallsBackToPrefix(t *testing.T) {
	api := &fakeS3API{
		headObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &types.NotFound{}
		},
		listObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, "reports/", aws.ToString(params.Prefix))
			return &s3.ListObjectsV2Output{KeyCount: aws.Int32(1)}, nil
		},
	}

	exists, err := testClient(api).Exists(context.Background(), "docs-bucket/reports")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsMissing(t *testing.T) {
	api := &fakeS3API{
		headObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &types.NotFound{}
		},
		listObjectsV2Func: func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{KeyCount: aws.Int32(0)}, nil
		},
	}

	exists, err := testClient(api).Exists(context.Background(), "docs-bucket/nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExistsBucketRoot(t *testing.T) {
	api := &fakeS3API{
		listObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Nil(t, params.Prefix)
			return &s3.ListObjectsV2Output{KeyCount: aws.Int32(1)}, nil
		},
	}

	exists, err := testClient(api).Exists(context.Background(), "docs-bucket")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsPropagatesError(t *testing.T) {
	api := &fakeS3API{
		headObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		},
	}

	_, err := testClient(api).Exists(context.Background(), "docs-bucket/secret.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestMakeDirsCreatesMarker(t *testing.T) {
	var putKey string
	api := &fakeS3API{
		headObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &types.NotFound{}
		},
		listObjectsV2Func: func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{KeyCount: aws.Int32(0)}, nil
		},
		putObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			putKey = aws.ToString(params.Key)
			return &s3.PutObjectOutput{}, nil
		},
	}

	err := testClient(api).MakeDirs(context.Background(), "docs-bucket/new/path", false)
	require.NoError(t, err)
	assert.Equal(t, "new/path/", putKey)
}

func TestMakeDirsExisting(t *testing.T) {
	putCalls := 0
	api := &fakeS3API{
		headObjectFunc: func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{}, nil
		},
		putObjectFunc: func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			putCalls++
			return &s3.PutObjectOutput{}, nil
		},
	}
	client := testClient(api)

	err := client.MakeDirs(context.Background(), "docs-bucket/new/path", false)
	require.Error(t, err)
	assert.True(t, IsAlreadyExists(err))

	err = client.MakeDirs(context.Background(), "docs-bucket/new/path", true)
	require.NoError(t, err)
	assert.Zero(t, putCalls, "existOk must not touch storage")
}

func TestOpenStreamsObject(t *testing.T) {
	api := &fakeS3API{
		getObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "reports/a.txt", aws.ToString(params.Key))
			assert.Nil(t, params.Range)
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil
		},
	}

	rc, err := testClient(api).Open(context.Background(), "docs-bucket/reports/a.txt", OpenOptions{})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenWithRangeAndBlockSize(t *testing.T) {
	api := &fakeS3API{
		getObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "bytes=0-4", aws.ToString(params.Range))
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil
		},
	}

	rc, err := testClient(api).Open(context.Background(), "docs-bucket/a.txt", OpenOptions{
		BlockSize: 1024,
		Range:     "bytes=0-4",
	})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenWriteUploadsOnClose(t *testing.T) {
	var uploaded []byte
	putCalls := 0
	api := &fakeS3API{
		putObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			putCalls++
			data, err := io.ReadAll(params.Body)
			require.NoError(t, err)
			uploaded = data
			return &s3.PutObjectOutput{}, nil
		},
	}

	wc, err := testClient(api).OpenWrite(context.Background(), "docs-bucket/out.txt")
	require.NoError(t, err)

	_, err = wc.Write([]byte("part one "))
	require.NoError(t, err)
	_, err = wc.Write([]byte("part two"))
	require.NoError(t, err)
	assert.Zero(t, putCalls, "nothing uploads before Close")

	require.NoError(t, wc.Close())
	assert.Equal(t, 1, putCalls)
	assert.Equal(t, "part one part two", string(uploaded))

	// Close is idempotent, Write after Close fails.
	require.NoError(t, wc.Close())
	assert.Equal(t, 1, putCalls)
	_, err = wc.Write([]byte("x"))
	require.Error(t, err)
}

func TestLsReturnsChildren(t *testing.T) {
	api := &fakeS3API{
		listObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, "/", aws.ToString(params.Delimiter))
			assert.Equal(t, "dir/", aws.ToString(params.Prefix))
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("dir/")}, // marker for the listed path itself
					{Key: aws.String("dir/a.txt"), Size: aws.Int64(3)},
					{Key: aws.String("dir/b.txt"), Size: aws.Int64(5)},
				},
				CommonPrefixes: []types.CommonPrefix{
					{Prefix: aws.String("dir/sub/")},
				},
			}, nil
		},
	}

	entries, err := testClient(api).Ls(context.Background(), "docs-bucket/dir")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "docs-bucket/dir/a.txt", entries[0].Path)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, int64(3), entries[0].Size)
	assert.Equal(t, "docs-bucket/dir/b.txt", entries[1].Path)
	assert.Equal(t, "docs-bucket/dir/sub/", entries[2].Path)
	assert.True(t, entries[2].IsDir)
}

func TestWalkPaginates(t *testing.T) {
	calls := 0
	api := &fakeS3API{
		listObjectsV2Func: func(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			calls++
			assert.Nil(t, params.Delimiter, "recursive walk must not use a delimiter")
			if calls == 1 {
				assert.Nil(t, params.ContinuationToken)
				return &s3.ListObjectsV2Output{
					Contents:              []types.Object{{Key: aws.String("a.txt")}},
					IsTruncated:           aws.Bool(true),
					NextContinuationToken: aws.String("token-1"),
				}, nil
			}
			assert.Equal(t, "token-1", aws.ToString(params.ContinuationToken))
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{{Key: aws.String("sub/b.txt")}},
			}, nil
		},
	}

	entries, err := testClient(api).Walk(context.Background(), "docs-bucket", true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, entries, 2)
	assert.Equal(t, "docs-bucket/a.txt", entries[0].Path)
	assert.Equal(t, "docs-bucket/sub/b.txt", entries[1].Path)
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "a.txt", Entry{Path: "bucket/dir/a.txt"}.Name())
	assert.Equal(t, "sub", Entry{Path: "bucket/dir/sub/", IsDir: true}.Name())
	assert.Equal(t, "bucket", Entry{Path: "bucket"}.Name())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&types.NoSuchKey{}))
	assert.True(t, IsNotFound(&types.NoSuchBucket{}))
	assert.True(t, IsNotFound(&types.NotFound{}))
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	require.Error(t, err)

	_, err = New(context.Background(), Config{KeyID: "id", SecretKey: "secret"}, nil)
	require.Error(t, err, "endpoint URL is required")
}
