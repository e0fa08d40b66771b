package request

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotInteger = errors.New("not a positive integer")

// Fields is a decoded JSON object body, keyed by field name. Values stay raw
// so each rule can decide how to interpret them.
type Fields map[string]json.RawMessage

// Has reports whether key is present, including explicit nulls
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Raw returns the raw value of key, or nil when absent or null
func (f Fields) Raw(key string) json.RawMessage {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	return raw
}

// String returns the value of key when it is a JSON string
func (f Fields) String(key string) (string, bool) {
	raw := f.Raw(key)
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text returns the value of key rendered as text. Strings are returned as is
// and numbers in their literal form.
func (f Fields) Text(key string) (string, bool) {
	if s, ok := f.String(key); ok {
		return s, true
	}
	raw := f.Raw(key)
	if raw == nil {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

// Bool returns the value of key when it is a JSON boolean
func (f Fields) Bool(key string) (bool, bool) {
	raw := f.Raw(key)
	if raw == nil {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// ID returns the value of key as a record id. Both 12 and "12" are accepted.
func (f Fields) ID(key string) (int64, bool, error) {
	text, ok := f.Text(key)
	if !ok || strings.TrimSpace(text) == "" {
		return 0, false, nil
	}
	id, err := ParseID(text)
	return id, true, err
}

// ParseID parses a positive integer id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errNotInteger
	}
	return id, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeBase64(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
