package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// marshalRecords converts the collection to JSON TEXT for storage.
// HTML escaping is disabled so free text is stored as entered.
func marshalRecords(records []submission.Record) (string, error) {
	if records == nil {
		records = []submission.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return "", &PersistenceError{Op: "encode", Key: SubmissionsKey, Err: err}
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalRecords parses stored JSON TEXT. An empty value decodes to an
// empty, non-nil collection.
func unmarshalRecords(data string) ([]submission.Record, error) {
	if strings.TrimSpace(data) == "" {
		return []submission.Record{}, nil
	}
	var records []submission.Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, &PersistenceError{Op: "decode", Key: SubmissionsKey, Err: err}
	}
	if records == nil {
		records = []submission.Record{}
	}
	return records, nil
}
