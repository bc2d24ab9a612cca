// Package parser converts raw file bytes into extracted text and metadata.
// Parsers register themselves by file extension during initialization;
// callers can override the registry per-file through the directory
// reader's extractor mapping.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Parsed is one unit of extracted content. Most parsers return a single
// Parsed per file; tabular formats may return one per record.
type Parsed struct {
	Text     string
	Metadata map[string]any
}

// Parser turns the raw bytes of a file into one or more Parsed records.
type Parser interface {
	// Extensions returns the file extensions this parser handles,
	// lowercase with the leading dot (e.g. ".txt").
	Extensions() []string

	// Parse extracts content from data. path is the full source path,
	// available for context (not for re-reading).
	Parse(path string, data []byte) ([]Parsed, error)
}

var (
	// Stores registered parsers, keyed by normalized extension.
	parserRegistry = make(map[string]Parser)
	registryMu     sync.RWMutex
)

// Register adds a parser for each extension it declares. It panics on a
// duplicate extension since registration happens during init().
func Register(p Parser) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, ext := range p.Extensions() {
		normalized := normalizeExt(ext)
		if _, exists := parserRegistry[normalized]; exists {
			panic(fmt.Sprintf("parser for extension %s already registered", normalized))
		}
		parserRegistry[normalized] = p
	}
}

// Lookup retrieves the registered parser for an extension.
func Lookup(ext string) (Parser, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, exists := parserRegistry[normalizeExt(ext)]
	return p, exists
}

// Extensions returns a sorted list of all registered extensions.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(parserRegistry))
	for ext := range parserRegistry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
