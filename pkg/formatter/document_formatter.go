package formatter

import (
	"fmt"
	"strings"

	"spacesreader/pkg/document"
)

type DocumentFormatter struct{}

func NewDocumentFormatter() *DocumentFormatter {
	return &DocumentFormatter{}
}

const textPreviewLen = 60

func (f *DocumentFormatter) FormatDocumentList(docs []*document.Document) string {
	table := NewTable([]string{"ID", "URI", "SIZE", "TEXT"})

	for _, doc := range docs {
		table.AddRow([]string{
			doc.ID,
			doc.URI,
			FormatBytes(int64(len(doc.Text))),
			previewText(doc.Text),
		})
	}

	return table.String()
}

func (f *DocumentFormatter) FormatListing(names []string) string {
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}

// previewText condenses document text to a single short line
func previewText(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) > textPreviewLen {
		return collapsed[:textPreviewLen-3] + "..."
	}
	return collapsed
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
