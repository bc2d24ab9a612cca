// Package dirreader loads files from a filesystem backend and converts
// them into documents. It owns traversal, extension filtering, parser
// dispatch, and metadata attachment; source connectors configure it and
// hand it a filesystem.
package dirreader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spacesreader/pkg/document"
	"spacesreader/pkg/dirreader/parser"
	"spacesreader/pkg/spacesfs"
)

// ErrUnsupportedFormat is returned when a file has no matching parser in
// either the caller's extractor mapping or the default registry.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FS is the filesystem surface the reader traverses. *spacesfs.Client
// satisfies it.
type FS interface {
	Walk(ctx context.Context, path string, recursive bool) ([]spacesfs.Entry, error)
	Open(ctx context.Context, path string, opts spacesfs.OpenOptions) (io.ReadCloser, error)
}

var _ FS = (*spacesfs.Client)(nil)

// Options configures a Reader. Exactly one of InputDir and InputFiles
// must be set.
type Options struct {
	// InputDir is the root to enumerate, as a "bucket/prefix" path.
	InputDir string

	// InputFiles is an explicit list of files to load, bypassing
	// traversal entirely.
	InputFiles []string

	// FileExtractor overrides the default parser registry per extension.
	FileExtractor map[string]parser.Parser

	// RequiredExts restricts loading to files with these extensions.
	RequiredExts []string

	// FilenameAsID uses the file path as the document ID instead of a
	// random UUID.
	FilenameAsID bool

	// NumFilesLimit caps how many files are loaded; zero means no limit.
	NumFilesLimit int

	// FileMetadata generates additional metadata for each file. Its
	// entries override the reader's standard file metadata.
	FileMetadata func(path string) map[string]any

	// Recursive descends into subdirectories when enumerating InputDir.
	Recursive bool

	// Workers bounds how many files are fetched and parsed at once.
	// Values below 1 mean sequential loading. Result order is the file
	// order regardless.
	Workers int
}

// Reader loads documents from a filesystem according to its Options.
type Reader struct {
	fs     FS
	opts   Options
	logger *slog.Logger
}

// New validates the options and returns a Reader.
func New(fs FS, opts Options, logger *slog.Logger) (*Reader, error) {
	if fs == nil {
		return nil, fmt.Errorf("dirreader: filesystem is required")
	}
	if opts.InputDir == "" && len(opts.InputFiles) == 0 {
		return nil, fmt.Errorf("dirreader: one of InputDir or InputFiles is required")
	}
	if opts.InputDir != "" && len(opts.InputFiles) > 0 {
		return nil, fmt.Errorf("dirreader: InputDir and InputFiles are mutually exclusive")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{
		fs:     fs,
		opts:   opts,
		logger: logger.With("component", "dirreader"),
	}, nil
}

// Load resolves the target file list and converts every file into
// documents, in file order.
func (r *Reader) Load(ctx context.Context) ([]*document.Document, error) {
	files, err := r.resolveFiles(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Resolved input files", "count", len(files))

	results := make([][]*document.Document, len(files))

	if r.opts.Workers == 1 {
		for i, file := range files {
			docs, err := r.loadFile(ctx, file)
			if err != nil {
				return nil, err
			}
			results[i] = docs
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.opts.Workers)
		for i, file := range files {
			g.Go(func() error {
				docs, err := r.loadFile(gctx, file)
				if err != nil {
					return err
				}
				results[i] = docs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var documents []*document.Document
	for _, docs := range results {
		documents = append(documents, docs...)
	}
	return documents, nil
}

// resolveFiles produces the ordered list of file paths to load.
func (r *Reader) resolveFiles(ctx context.Context) ([]string, error) {
	var files []string

	if len(r.opts.InputFiles) > 0 {
		files = append(files, r.opts.InputFiles...)
	} else {
		entries, err := r.fs.Walk(ctx, r.opts.InputDir, r.opts.Recursive)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir {
				continue
			}
			files = append(files, entry.Path)
		}
	}

	if len(r.opts.RequiredExts) > 0 {
		required := make(map[string]bool, len(r.opts.RequiredExts))
		for _, ext := range r.opts.RequiredExts {
			required[normalizeExt(ext)] = true
		}

		filtered := files[:0]
		for _, file := range files {
			if required[strings.ToLower(path.Ext(file))] {
				filtered = append(filtered, file)
			}
		}
		files = filtered
	}

	if r.opts.NumFilesLimit > 0 && len(files) > r.opts.NumFilesLimit {
		files = files[:r.opts.NumFilesLimit]
	}

	return files, nil
}

// loadFile fetches one file and turns it into documents.
func (r *Reader) loadFile(ctx context.Context, filePath string) ([]*document.Document, error) {
	rc, err := r.fs.Open(ctx, filePath, spacesfs.OpenOptions{})
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, fmt.Errorf("dirreader: read %s: %w", filePath, err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("dirreader: close %s: %w", filePath, closeErr)
	}

	ext := strings.ToLower(path.Ext(filePath))
	p, err := r.parserFor(ext)
	if err != nil {
		return nil, fmt.Errorf("dirreader: %s: %w", filePath, err)
	}

	parsed, err := p.Parse(filePath, data)
	if err != nil {
		return nil, err
	}

	baseID := filePath
	if !r.opts.FilenameAsID {
		baseID = uuid.New().String()
	}

	docs := make([]*document.Document, 0, len(parsed))
	for i, part := range parsed {
		id := baseID
		if len(parsed) > 1 {
			id = fmt.Sprintf("%s_part_%d", baseID, i)
		}

		doc := &document.Document{
			ID:   id,
			URI:  filePath,
			Text: part.Text,
		}
		for k, v := range part.Metadata {
			doc.SetMetadata(k, v)
		}
		doc.SetMetadata("file_path", filePath)
		doc.SetMetadata("file_name", path.Base(filePath))
		doc.SetMetadata("file_size", len(data))
		if r.opts.FileMetadata != nil {
			for k, v := range r.opts.FileMetadata(filePath) {
				doc.SetMetadata(k, v)
			}
		}

		docs = append(docs, doc)
	}
	return docs, nil
}

// parserFor resolves the parser for an extension: the caller's extractor
// mapping first, then the default registry.
func (r *Reader) parserFor(ext string) (parser.Parser, error) {
	if r.opts.FileExtractor != nil {
		if p, ok := r.opts.FileExtractor[ext]; ok {
			return p, nil
		}
	}
	if p, ok := parser.Lookup(ext); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
