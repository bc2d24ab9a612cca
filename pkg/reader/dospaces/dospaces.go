// Package dospaces connects the document pipeline to a DigitalOcean
// Spaces bucket. The connector is configuration plus delegation: storage
// access goes through spacesfs, content-to-document conversion through
// dirreader. If no object key is configured, the whole bucket (filtered
// by prefix) is loaded.
package dospaces

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"spacesreader/pkg/dirreader"
	"spacesreader/pkg/dirreader/parser"
	"spacesreader/pkg/document"
	"spacesreader/pkg/spacesfs"
)

// DocIDPrefix namespaces every document ID produced by this connector.
const DocIDPrefix = "do_spaces_"

var validate = validator.New()

// Config is the connector's full configuration surface. It is read-only
// after New; every operation derives a fresh storage client from it.
type Config struct {
	// Bucket is the name of the Spaces bucket.
	Bucket string `validate:"required"`

	// Key selects a single object. When set it takes precedence over
	// Prefix and Load fetches exactly that one file.
	Key string

	// Prefix restricts bucket enumeration. Empty means the bucket root.
	Prefix string

	// Recursive descends into subdirectories when enumerating.
	Recursive bool

	// FileExtractor overrides the default parser per extension
	// (keys like ".md").
	FileExtractor map[string]parser.Parser

	// RequiredExts restricts loading to files with these extensions.
	RequiredExts []string

	// FilenameAsID uses the file path as the document ID.
	FilenameAsID bool

	// NumFilesLimit caps how many files Load reads; zero means no limit.
	NumFilesLimit int

	// FileMetadata generates extra per-file metadata.
	FileMetadata func(path string) map[string]any

	// Workers bounds parallel fetching inside the directory reader.
	Workers int

	// KeyID, SecretKey and EndpointURL are the Spaces credentials.
	KeyID       string `validate:"required"`
	SecretKey   string `validate:"required"`
	EndpointURL string `validate:"required,url"`

	// Region is the signing region; spacesfs defaults it when empty.
	Region string
}

// DefaultConfig returns a Config with the connector defaults applied:
// recursive traversal and path-based document IDs.
func DefaultConfig() Config {
	return Config{
		Recursive:    true,
		FilenameAsID: true,
	}
}

// Reader loads documents from a DigitalOcean Spaces bucket.
type Reader struct {
	cfg    Config
	logger *slog.Logger

	// newFS builds the storage client; overridable in tests.
	newFS func(ctx context.Context) (*spacesfs.Client, error)
}

// New validates cfg and returns a connector. No remote call is made;
// credentials are exercised on first use.
func New(cfg Config, logger *slog.Logger) (*Reader, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("dospaces: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reader{
		cfg:    cfg,
		logger: logger.With("connector", "dospaces", "bucket", cfg.Bucket),
	}
	r.newFS = r.buildFS
	return r, nil
}

// buildFS constructs a fresh storage client from the configuration.
// Clients are never cached; each operation gets its own.
func (r *Reader) buildFS(ctx context.Context) (*spacesfs.Client, error) {
	return spacesfs.New(ctx, spacesfs.Config{
		KeyID:       r.cfg.KeyID,
		SecretKey:   r.cfg.SecretKey,
		EndpointURL: r.cfg.EndpointURL,
		Region:      r.cfg.Region,
	}, r.logger)
}

// Exists reports whether bucket/path exists in storage.
func (r *Reader) Exists(ctx context.Context, path string) (bool, error) {
	fs, err := r.newFS(ctx)
	if err != nil {
		return false, err
	}
	return fs.Exists(ctx, r.bucketPath(path))
}

// MakeDirs creates a directory path under the bucket. With existOk false
// an existing path fails with spacesfs.ErrAlreadyExists.
func (r *Reader) MakeDirs(ctx context.Context, path string, existOk bool) error {
	fs, err := r.newFS(ctx)
	if err != nil {
		return err
	}
	return fs.MakeDirs(ctx, r.bucketPath(path), existOk)
}

// Open returns a read stream over bucket/path, positioned at the start.
func (r *Reader) Open(ctx context.Context, path string, opts spacesfs.OpenOptions) (io.ReadCloser, error) {
	fs, err := r.newFS(ctx)
	if err != nil {
		return nil, err
	}
	return fs.Open(ctx, r.bucketPath(path), opts)
}

// ListDir lists the immediate children of bucket/path, returning only
// the final path segment of each entry, in the order the storage
// service produced them.
func (r *Reader) ListDir(ctx context.Context, path string) ([]string, error) {
	fs, err := r.newFS(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := fs.Ls(ctx, r.bucketPath(path))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Load fetches the configured file or enumerates the configured prefix,
// converts everything to documents via the directory reader, and
// namespaces each document ID with DocIDPrefix.
func (r *Reader) Load(ctx context.Context) ([]*document.Document, error) {
	fs, err := r.newFS(ctx)
	if err != nil {
		return nil, err
	}

	opts := dirreader.Options{
		FileExtractor: r.cfg.FileExtractor,
		RequiredExts:  r.cfg.RequiredExts,
		FilenameAsID:  r.cfg.FilenameAsID,
		NumFilesLimit: r.cfg.NumFilesLimit,
		FileMetadata:  r.cfg.FileMetadata,
		Recursive:     r.cfg.Recursive,
		Workers:       r.cfg.Workers,
	}

	switch {
	case r.cfg.Key != "":
		opts.InputFiles = []string{r.cfg.Bucket + "/" + r.cfg.Key}
	case r.cfg.Prefix != "":
		opts.InputDir = r.cfg.Bucket + "/" + r.cfg.Prefix
	default:
		opts.InputDir = r.cfg.Bucket
	}

	loader, err := dirreader.New(fs, opts, r.logger)
	if err != nil {
		return nil, err
	}

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		doc.PrefixID(DocIDPrefix)
	}

	r.logger.Debug("Loaded documents", "count", len(docs))
	return docs, nil
}

func (r *Reader) bucketPath(path string) string {
	if path == "" {
		return r.cfg.Bucket
	}
	return r.cfg.Bucket + "/" + path
}
