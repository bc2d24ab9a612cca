package parser

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	Register(&JSONParser{})
}

// JSONParser handles JSON files. The document text is the re-serialized,
// indented form; top-level object keys are recorded in the metadata.
type JSONParser struct{}

var _ Parser = (*JSONParser)(nil)

func (p *JSONParser) Extensions() []string {
	return []string{".json"}
}

func (p *JSONParser) Parse(path string, data []byte) ([]Parsed, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}

	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize json %s: %w", path, err)
	}

	var meta map[string]any
	if obj, ok := value.(map[string]any); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		meta = map[string]any{"keys": keys}
	}

	return []Parsed{{Text: string(text), Metadata: meta}}, nil
}
