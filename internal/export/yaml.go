package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports transcripts in YAML format
type YAMLExporter struct{}

// yamlTranscript is the YAML-facing shape of a transcript.
type yamlTranscript struct {
	WorkspaceID   string        `yaml:"workspace_id"`
	WorkspaceName string        `yaml:"workspace_name,omitempty"`
	Messages      []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	Actor     string `yaml:"actor"`
	Content   string `yaml:"content"`
	Timestamp string `yaml:"timestamp,omitempty"`
}

// Export exports a transcript to YAML format
func (e *YAMLExporter) Export(t *Transcript, w io.Writer) error {
	doc := yamlTranscript{
		WorkspaceID:   t.WorkspaceID,
		WorkspaceName: t.WorkspaceName,
		Messages:      make([]yamlMessage, 0, len(t.Messages)),
	}

	for _, msg := range t.Messages {
		ym := yamlMessage{
			Actor:   actor(msg),
			Content: msg.Payload.String(),
		}
		if !msg.Timestamp.IsZero() {
			ym.Timestamp = msg.Timestamp.Format(time.RFC3339)
		}
		doc.Messages = append(doc.Messages, ym)
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
