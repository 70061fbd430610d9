package store

import (
	"database/sql/driver"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/studyace/studyace-server/internal/llm"
)

// JSON column wrappers. Postgres stores these as jsonb, the in-memory test
// database as text; both round-trip through the same Scan/Value pair.

// StringList is a JSON-encoded list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonValue(l)
}
func (l *StringList) Scan(src any) error { return jsonScan(src, l) }

// Int64List is a JSON-encoded list of ids.
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonValue(l)
}
func (l *Int64List) Scan(src any) error { return jsonScan(src, l) }

// JSONMap is a JSON-encoded object with arbitrary fields. A nil map is
// stored as SQL NULL, which carries the analyzed/results pairing for papers.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonValue(m)
}
func (m *JSONMap) Scan(src any) error { return jsonScan(src, m) }

// MessageList is a JSON-encoded conversation transcript.
type MessageList []llm.Message

func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonValue(l)
}
func (l *MessageList) Scan(src any) error { return jsonScan(src, l) }

func jsonValue(v any) (driver.Value, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return string(encoded), nil
}

func jsonScan(src any, dest any) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch value := src.(type) {
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}
