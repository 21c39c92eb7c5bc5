// Package manifest reads and writes the JSON and text files the release
// tooling mutates: package.json, migration-collection.json and CHANGELOG.md.
//
// JSON documents keep their key order so a rewritten package.json only
// differs from the original in the values that were changed.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// object is one JSON object level with insertion-ordered keys.
type object = orderedmap.OrderedMap[string, json.RawMessage]

// Document is an order-preserving JSON object.
type Document struct {
	root *object
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: orderedmap.New[string, json.RawMessage]()}
}

// ParseDocument parses data, which must hold a JSON object.
func ParseDocument(data []byte) (*Document, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

func parseObject(data []byte) (*object, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	obj := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, obj); err != nil {
		return nil, fmt.Errorf("parse JSON object: %w", err)
	}
	return obj, nil
}

// Has reports whether a value exists at path.
func (d *Document) Has(path ...string) bool {
	_, ok := d.Raw(path...)
	return ok
}

// Raw returns the encoded value at path.
func (d *Document) Raw(path ...string) (json.RawMessage, bool) {
	if len(path) == 0 {
		return nil, false
	}
	obj := d.root
	for i, key := range path {
		raw, ok := obj.Get(key)
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return raw, true
		}
		next, err := parseObject(raw)
		if err != nil {
			return nil, false
		}
		obj = next
	}
	return nil, false
}

// Decode unmarshals the value at path into v. A missing path is reported
// as ok=false with a nil error.
func (d *Document) Decode(v any, path ...string) (bool, error) {
	raw, ok := d.Raw(path...)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", strings.Join(path, "."), err)
	}
	return true, nil
}

// String returns the string at path, or "" when it is missing or not a string.
func (d *Document) String(path ...string) string {
	var s string
	if ok, err := d.Decode(&s, path...); !ok || err != nil {
		return ""
	}
	return s
}

// StringMap returns the object at path as a map of strings. A missing path
// yields an empty map.
func (d *Document) StringMap(path ...string) (map[string]string, error) {
	out := map[string]string{}
	if _, err := d.Decode(&out, path...); err != nil {
		return nil, err
	}
	return out, nil
}

// Keys returns the keys of the object at path in document order.
func (d *Document) Keys(path ...string) []string {
	obj := d.root
	if len(path) > 0 {
		raw, ok := d.Raw(path...)
		if !ok {
			return nil
		}
		var err error
		if obj, err = parseObject(raw); err != nil {
			return nil
		}
	}
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Set stores value at path. Intermediate objects are created when missing;
// existing keys keep their position.
func (d *Document) Set(value any, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}
	encoded, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", strings.Join(path, "."), err)
	}
	return setIn(d.root, path, encoded)
}

func setIn(obj *object, path []string, value json.RawMessage) error {
	key := path[0]
	if len(path) == 1 {
		obj.Set(key, value)
		return nil
	}

	child := orderedmap.New[string, json.RawMessage]()
	if raw, ok := obj.Get(key); ok {
		parsed, err := parseObject(raw)
		if err != nil {
			return fmt.Errorf("%s is not an object", key)
		}
		child = parsed
	}
	if err := setIn(child, path[1:], value); err != nil {
		return err
	}

	encoded, err := encode(child)
	if err != nil {
		return err
	}
	obj.Set(key, encoded)
	return nil
}

// Marshal encodes the document with two-space indentation and a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return unescapeHTML(buf.Bytes()), nil
}

// encode marshals v compactly without HTML escaping.
func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(unescapeHTML(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

// unescapeHTML undoes the \u0026, \u003c and \u003e escapes the ordered map
// encoder may apply, so "&", "<" and ">" round-trip as written.
func unescapeHTML(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u00`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if i+5 < len(b) && b[i+1] == 'u' {
			switch strings.ToLower(string(b[i+2 : i+6])) {
			case "0026":
				out = append(out, '&')
				i += 5
				continue
			case "003c":
				out = append(out, '<')
				i += 5
				continue
			case "003e":
				out = append(out, '>')
				i += 5
				continue
			}
		}
		// keep any other escape pair intact, including an escaped backslash
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
