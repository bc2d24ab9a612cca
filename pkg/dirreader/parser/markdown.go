package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

func init() {
	Register(&MarkdownParser{})
}

// MarkdownParser handles Markdown files. YAML front matter, when present,
// is lifted into the document metadata and stripped from the text.
type MarkdownParser struct{}

var _ Parser = (*MarkdownParser)(nil)

func (p *MarkdownParser) Extensions() []string {
	return []string{".md", ".markdown"}
}

func (p *MarkdownParser) Parse(path string, data []byte) ([]Parsed, error) {
	body, meta, err := splitFrontMatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse front matter of %s: %w", path, err)
	}
	return []Parsed{{Text: body, Metadata: meta}}, nil
}

const frontMatterDelim = "---"

// splitFrontMatter separates a leading YAML front matter block from the
// markdown body. Content without a front matter block passes through
// untouched.
func splitFrontMatter(content string) (string, map[string]any, error) {
	if !strings.HasPrefix(content, frontMatterDelim+"\n") &&
		!strings.HasPrefix(content, frontMatterDelim+"\r\n") {
		return content, nil, nil
	}

	rest := content[len(frontMatterDelim):]
	rest = strings.TrimPrefix(rest, "\r\n")
	rest = strings.TrimPrefix(rest, "\n")

	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		// Unterminated block; treat the whole file as body.
		return content, nil, nil
	}

	block := rest[:end]
	body := rest[end+len("\n"+frontMatterDelim):]
	body = strings.TrimPrefix(body, "\r\n")
	body = strings.TrimPrefix(body, "\n")

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return "", nil, err
	}

	return body, meta, nil
}
