// Package document provides an order-preserving JSON document tree and
// the walker that extracts and reassembles its translatable string leaves.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Value is one node of a document tree. Concrete types are *Object,
// Array, string, json.Number, bool, and nil.
type Value any

// Object is a JSON object that remembers key insertion order.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set stores a value under key, appending the key on first insertion.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get retrieves the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is the
// internal one and must not be modified.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Array is an ordered JSON array.
type Array []Value

// Decode reads one JSON document from r into an order-preserving tree.
// Numbers are kept as json.Number so they re-encode byte-identically.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			// Consume the closing '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return t, nil
	case json.Number:
		return t, nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Encode writes the document tree to w as two-space indented JSON,
// preserving object key order. Non-ASCII characters are written verbatim.
func Encode(w io.Writer, v Value) error {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, ""); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeValue(buf *bytes.Buffer, v Value, indent string) error {
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		inner := indent + "  "
		for i, key := range t.Keys() {
			buf.WriteString(inner)
			if err := encodeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			val, _ := t.Get(key)
			if err := encodeValue(buf, val, inner); err != nil {
				return err
			}
			if i < t.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteByte('}')
		return nil
	case Array:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		inner := indent + "  "
		for i, val := range t {
			buf.WriteString(inner)
			if err := encodeValue(buf, val, inner); err != nil {
				return err
			}
			if i < len(t)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteByte(']')
		return nil
	case json.Number:
		buf.WriteString(t.String())
		return nil
	default:
		return encodeScalar(buf, t)
	}
}

// encodeScalar writes a string, bool, or null without HTML escaping.
func encodeScalar(buf *bytes.Buffer, v Value) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// json.Encoder terminates every value with a newline; drop it.
	buf.Truncate(buf.Len() - 1)
	return nil
}
