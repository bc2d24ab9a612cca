package spacesfs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Entry describes a single object or common prefix returned by a listing.
type Entry struct {
	// Path is the full "bucket/key" path of the entry.
	Path string

	// Size is the object size in bytes. Zero for directory entries.
	Size int64

	// LastModified is the object's modification time, when known.
	LastModified time.Time

	// IsDir marks common prefixes and directory marker objects.
	IsDir bool
}

// Name returns the final path segment of the entry.
func (e Entry) Name() string {
	trimmed := strings.TrimSuffix(e.Path, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// Exists reports whether path refers to an existing object, or to a prefix
// under which at least one object lives.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	bucket, key, err := splitPath(path)
	if err != nil {
		return false, err
	}

	if key != "" {
		_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return true, nil
		}
		if !IsNotFound(err) {
			return false, fmt.Errorf("spacesfs: head %s: %w", path, err)
		}
		// Not an object; fall through and probe it as a prefix.
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(1),
	}
	if key != "" {
		input.Prefix = aws.String(key + "/")
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("spacesfs: list %s: %w", path, err)
	}
	return aws.ToInt32(out.KeyCount) > 0, nil
}

// MakeDirs creates a directory marker object for path. When existOk is
// false and the path already exists, it fails with ErrAlreadyExists.
// Object stores have no real directories, so only the deepest marker is
// written; intermediate levels are implied by the key.
func (c *Client) MakeDirs(ctx context.Context, path string, existOk bool) error {
	bucket, key, err := splitPath(path)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("spacesfs: cannot create bucket root %q", path)
	}

	exists, err := c.Exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		if existOk {
			return nil
		}
		return fmt.Errorf("spacesfs: %s: %w", path, ErrAlreadyExists)
	}

	marker := key + "/"
	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(marker),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("spacesfs: create directory %s: %w", path, err)
	}

	c.logger.Debug("Created directory marker", "path", path)
	return nil
}

// OpenOptions controls how Open reads an object.
type OpenOptions struct {
	// BlockSize buffers reads through a block of this many bytes.
	// Zero streams the response body directly.
	BlockSize int

	// Range is an HTTP range spec (e.g. "bytes=0-1023") passed through
	// to the service verbatim. Callers that do their own caching use it
	// to fetch partial objects.
	Range string
}

// Open returns a stream positioned at the start of the object (or at the
// start of the requested range). The caller must close it.
func (c *Client) Open(ctx context.Context, path string, opts OpenOptions) (io.ReadCloser, error) {
	bucket, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("spacesfs: cannot open bucket root %q", path)
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if opts.Range != "" {
		input.Range = aws.String(opts.Range)
	}

	out, err := c.api.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("spacesfs: open %s: %w", path, err)
	}

	if opts.BlockSize > 0 {
		return &bufferedReadCloser{
			Reader: bufio.NewReaderSize(out.Body, opts.BlockSize),
			closer: out.Body,
		}, nil
	}
	return out.Body, nil
}

type bufferedReadCloser struct {
	*bufio.Reader
	closer io.Closer
}

func (b *bufferedReadCloser) Close() error {
	return b.closer.Close()
}

// OpenWrite returns a writer whose content is uploaded as one object when
// it is closed. Nothing is sent to the service before Close.
func (c *Client) OpenWrite(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("spacesfs: cannot write bucket root %q", path)
	}

	return &objectWriter{
		ctx:    ctx,
		api:    c.api,
		bucket: bucket,
		key:    key,
	}, nil
}

type objectWriter struct {
	ctx    context.Context
	api    S3API
	bucket string
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("spacesfs: write to closed writer")
	}
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.api.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("spacesfs: put %s/%s: %w", w.bucket, w.key, err)
	}
	return nil
}

// Ls lists the immediate children of path, in the order the service
// returned them. Objects become file entries, common prefixes become
// directory entries.
func (c *Client) Ls(ctx context.Context, path string) ([]Entry, error) {
	return c.list(ctx, path, false)
}

// Walk enumerates every object under path. With recursive false it stops
// at the first level, like Ls.
func (c *Client) Walk(ctx context.Context, path string, recursive bool) ([]Entry, error) {
	return c.list(ctx, path, recursive)
}

func (c *Client) list(ctx context.Context, path string, recursive bool) ([]Entry, error) {
	bucket, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	prefix := ""
	if key != "" {
		prefix = key + "/"
	}

	var entries []Entry
	var continuation *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			ContinuationToken: continuation,
		}
		if prefix != "" {
			input.Prefix = aws.String(prefix)
		}
		if !recursive {
			input.Delimiter = aws.String("/")
		}

		out, err := c.api.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("spacesfs: list %s: %w", path, err)
		}

		for _, obj := range out.Contents {
			objKey := aws.ToString(obj.Key)
			if objKey == prefix {
				// The directory marker for the listed path itself.
				continue
			}
			entries = append(entries, Entry{
				Path:         bucket + "/" + objKey,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				IsDir:        strings.HasSuffix(objKey, "/"),
			})
		}
		for _, cp := range out.CommonPrefixes {
			entries = append(entries, Entry{
				Path:  bucket + "/" + aws.ToString(cp.Prefix),
				IsDir: true,
			})
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		continuation = out.NextContinuationToken
	}

	c.logger.Debug("Listed path", "path", path, "recursive", recursive, "entries", len(entries))
	return entries, nil
}
