package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a document handed to FieldsFromJSON is not a JSON object.
var ErrNotObject = errors.New("json document is not an object")

// Field is a single key/value row.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered list of rows. Order and duplicates are kept exactly as
// they appeared in the source document.
type Fields []Field

// Keys returns the keys in row order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for _, field := range f {
		keys = append(keys, field.Key)
	}
	return keys
}

// Get returns the value of the first row with the given key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// FieldsFromJSON decodes a JSON object into rows, one per top-level key, in
// document order. Strings are unquoted, numbers/booleans/null keep their
// literal text, and nested objects or arrays are rendered as compact JSON.
func FieldsFromJSON(data []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	fields := Fields{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode json key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected json token %v", tok)
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode value of %q: %w", key, err)
		}
		value, err := renderValue(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to render value of %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}

	// closing brace
	if _, err = dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if _, err = dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after json object")
	}
	return fields, nil
}

func renderValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}
