package internal

import (
	"encoding/json"
	"fmt"
)

// EnvelopeVersion is the schema version written with every persisted blob.
const EnvelopeVersion = 1

// envelope wraps every persisted blob so the schema can evolve without
// breaking older data.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// migrations maps a blob version to the function that lifts its data to the
// next version. Applied in sequence on load until EnvelopeVersion is reached.
var migrations = map[int]func(json.RawMessage) (json.RawMessage, error){
	0: migrateV0,
}

// migrateV0 handles pre-envelope blobs: the payload was stored bare, so it
// passes through unchanged.
func migrateV0(data json.RawMessage) (json.RawMessage, error) {
	return data, nil
}

// EncodeBlob wraps a value in the current envelope and marshals it.
func EncodeBlob(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blob data: %w", err)
	}
	return json.Marshal(envelope{Version: EnvelopeVersion, Data: data})
}

// DecodeBlob unwraps a persisted blob, applying migrations as needed, and
// unmarshals the data into v. Blobs written before versioning existed are
// treated as version 0.
func DecodeBlob(raw []byte, v interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Data == nil {
		// Legacy bare blob
		env = envelope{Version: 0, Data: raw}
	}

	if env.Version > EnvelopeVersion {
		return fmt.Errorf("blob version %d is newer than supported version %d", env.Version, EnvelopeVersion)
	}

	data := env.Data
	for version := env.Version; version < EnvelopeVersion; version++ {
		migrate, ok := migrations[version]
		if !ok {
			return fmt.Errorf("no migration from blob version %d", version)
		}
		migrated, err := migrate(data)
		if err != nil {
			return fmt.Errorf("migration from version %d failed: %w", version, err)
		}
		data = migrated
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal blob data: %w", err)
	}
	return nil
}
