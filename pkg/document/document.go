// Package document defines the record produced by the directory reader.
// It is the canonical representation handed to ingestion pipelines.
package document

// Document is a single unit of extracted content plus its metadata.
type Document struct {
	// ID is the unique identifier for the document. Source connectors
	// may rewrite it (see PrefixID); nothing else mutates a document
	// after the reader returns it.
	ID string

	// URI is the original location of the content (e.g. "bucket/key").
	URI string

	// Text is the full extracted text content.
	Text string

	// Metadata contains arbitrary key-value pairs attached by the
	// parser and by any caller-supplied metadata function.
	Metadata map[string]any
}

// PrefixID rewrites the document ID in place to prefix + ID. This is the
// one sanctioned mutation of a returned document; connectors use it to
// namespace IDs per source. Safe on documents freshly built by the reader,
// which are not shared until the caller receives them.
func (d *Document) PrefixID(prefix string) {
	d.ID = prefix + d.ID
}

// SetMetadata stores a key-value pair, allocating the map if needed.
func (d *Document) SetMetadata(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	d.Metadata[key] = value
}
