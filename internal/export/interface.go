package export

import (
	"fmt"
	"io"

	"github.com/metpro/casechat/internal"
)

// Transcript bundles a workspace with its messages for export.
type Transcript struct {
	WorkspaceID   string             `json:"workspaceId"`
	WorkspaceName string             `json:"workspaceName,omitempty"`
	Messages      []internal.Message `json:"messages"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// actor maps a message to its export actor label.
func actor(msg internal.Message) string {
	if msg.FromUser {
		return "user"
	}
	return "assistant"
}
