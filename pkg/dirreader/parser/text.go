package parser

func init() {
	Register(&TextParser{})
}

// TextParser handles plain-text formats by passing the bytes through
// unchanged. It claims the extensions that are text in practice, source
// code included.
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

func (p *TextParser) Extensions() []string {
	return []string{
		".txt", ".text", ".log",
		".rst", ".org",
		".html", ".htm", ".xml",
		".ini", ".conf", ".toml",
		".sh", ".sql",
		".go", ".py", ".js", ".ts", ".rb", ".java", ".c", ".h", ".css",
	}
}

func (p *TextParser) Parse(_ string, data []byte) ([]Parsed, error) {
	return []Parsed{{Text: string(data)}}, nil
}
