package document

import (
	"strconv"
	"strings"
)

// Path identifies a leaf by the object keys and array indices leading to
// it from the document root. Paths are unique within one document.
type Path []string

// String renders the path as a JSON-Pointer-style string ("/a/b/0").
// Key segments escape "~" as "~0" and "/" as "~1" so dotted or slashed
// keys cannot collide.
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		seg = strings.ReplaceAll(seg, "~", "~0")
		seg = strings.ReplaceAll(seg, "/", "~1")
		b.WriteString(seg)
	}
	return b.String()
}

// child returns a new Path extended by one segment. The receiver is
// copied so sibling paths never alias.
func (p Path) child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Leaf is one translatable string at a specific path.
type Leaf struct {
	Path Path
	Text string
}

// Extract returns the translatable leaves of the document in document
// order. Empty and whitespace-only strings are excluded; non-string
// scalars are never leaves.
func Extract(v Value) []Leaf {
	var leaves []Leaf
	walk(v, nil, func(path Path, text string) {
		leaves = append(leaves, Leaf{Path: path, Text: text})
	})
	return leaves
}

func walk(v Value, path Path, fn func(Path, string)) {
	switch t := v.(type) {
	case *Object:
		for _, key := range t.Keys() {
			val, _ := t.Get(key)
			walk(val, path.child(key), fn)
		}
	case Array:
		for i, val := range t {
			walk(val, path.child(strconv.Itoa(i)), fn)
		}
	case string:
		if strings.TrimSpace(t) != "" {
			fn(path, t)
		}
	}
}

// Reassemble produces a new document of identical shape where every
// string leaf whose path string appears in translations is replaced by
// its translation. All other nodes, including empty strings and
// non-string scalars, are copied unchanged. The input is never mutated.
func Reassemble(v Value, translations map[string]string) Value {
	return rebuild(v, nil, translations)
}

// Clone returns a deep copy of the document.
func Clone(v Value) Value {
	return rebuild(v, nil, nil)
}

func rebuild(v Value, path Path, translations map[string]string) Value {
	switch t := v.(type) {
	case *Object:
		out := NewObject()
		for _, key := range t.Keys() {
			val, _ := t.Get(key)
			out.Set(key, rebuild(val, path.child(key), translations))
		}
		return out
	case Array:
		out := make(Array, len(t))
		for i, val := range t {
			out[i] = rebuild(val, path.child(strconv.Itoa(i)), translations)
		}
		return out
	case string:
		if translations != nil {
			if translated, ok := translations[path.String()]; ok {
				return translated
			}
		}
		return t
	default:
		return t
	}
}

// CollectSamples gathers up to max non-empty string leaves in document
// order, for language detection.
func CollectSamples(v Value, max int) []string {
	var samples []string
	walk(v, nil, func(_ Path, text string) {
		if len(samples) < max {
			samples = append(samples, text)
		}
	})
	return samples
}
