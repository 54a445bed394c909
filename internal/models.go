package internal

import (
	"encoding/json"
	"time"
)

// Workspace groups one chat transcript with its document folders and
// collaborators. IDs are immutable once created.
type Workspace struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Folders       []Folder       `json:"folders"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Collaborators []Collaborator `json:"collaborators"`
	Kind          string         `json:"type,omitempty"` // "patient_documents" or "medical_documents"
	FilePath      string         `json:"filePath,omitempty"`
}

// Folder is a node in a workspace's document tree.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"type,omitempty"`
	Children  []Folder  `json:"children,omitempty"`
	Documents []FileRef `json:"documents,omitempty"`
	Files     []string  `json:"files,omitempty"`
	URLs      []string  `json:"urls,omitempty"`
}

// FileRef points at an uploaded document inside a folder.
type FileRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileType string `json:"fileType,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Collaborator identifies a person with access to a workspace.
type Collaborator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Message is one immutable transcript entry.
type Message struct {
	ID          string    `json:"id"`
	Payload     Payload   `json:"payload"`
	FromUser    bool      `json:"isFromUser"`
	Timestamp   time.Time `json:"timestamp"`
	ImageBase64 string    `json:"imageData,omitempty"`
}

// ModelReply is the structured form of a backend reply.
type ModelReply struct {
	Response    string `json:"response"`
	ImageBase64 string `json:"image_base64,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	AgentUsed   string `json:"agent_used,omitempty"`
	Status      string `json:"status,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// Payload holds either plain text or a structured model reply. Exactly one of
// Text/Reply is meaningful; Reply wins when both are set. On the wire it is a
// bare JSON string or a reply object, matching the stored transcript format.
type Payload struct {
	Text  string
	Reply *ModelReply
}

// TextPayload wraps plain text in a Payload.
func TextPayload(text string) Payload {
	return Payload{Text: text}
}

// ReplyPayload wraps a structured reply in a Payload.
func ReplyPayload(reply *ModelReply) Payload {
	return Payload{Reply: reply}
}

// String returns the displayable text of the payload.
func (p Payload) String() string {
	if p.Reply != nil {
		return p.Reply.Response
	}
	return p.Text
}

// MarshalJSON encodes the payload as a JSON string or a reply object.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Reply != nil {
		return json.Marshal(p.Reply)
	}
	return json.Marshal(p.Text)
}

// UnmarshalJSON accepts either encoding.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = Payload{Text: text}
		return nil
	}

	var reply ModelReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return err
	}
	*p = Payload{Reply: &reply}
	return nil
}

// NewWorkspace creates an empty workspace with a generated ID and current
// timestamps.
func NewWorkspace(name string) Workspace {
	now := time.Now()
	return Workspace{
		ID:            GenerateID(),
		Name:          name,
		Folders:       []Folder{},
		CreatedAt:     now,
		UpdatedAt:     now,
		Collaborators: []Collaborator{},
	}
}

// NewDefaultWorkspace synthesizes the workspace used when nothing is persisted
// yet or the persisted list was lost.
func NewDefaultWorkspace() Workspace {
	return NewWorkspace("Default chat")
}
