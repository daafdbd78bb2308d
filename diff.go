package jsontl

import (
	"strconv"
	"strings"

	"github.com/translatekit/jsontl/document"
)

// DiffResult is the minimal retranslation set computed between a previous
// run and a new input document.
type DiffResult struct {
	// Changed contains the leaves that must be retranslated, in document order.
	Changed []document.Leaf

	// Reused maps leaf path strings to the previous translated value,
	// copied verbatim into the new output.
	Reused map[string]string
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Changed: len(d.Changed),
		Reused:  len(d.Reused),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Changed int
	Reused  int
}

// HasChanges returns true if any leaf needs retranslation.
func (d *DiffResult) HasChanges() bool {
	return len(d.Changed) > 0
}

// Diff walks the new input in lock-step with the previous run's input and
// output trees. A leaf is selected for retranslation when its path is
// absent from the previous run, when its source text changed, or when the
// shape diverges structurally at an ancestor (different node kind or
// array length), in which case every leaf under that subtree is treated
// as changed. All other leaves reuse the previous translated value.
func Diff(prevInput, prevOutput, newInput document.Value) *DiffResult {
	result := &DiffResult{Reused: make(map[string]string)}
	diffWalk(newInput, prevInput, prevOutput, nil, result)
	return result
}

func diffWalk(newV, prevIn, prevOut document.Value, path document.Path, result *DiffResult) {
	switch t := newV.(type) {
	case *document.Object:
		pi, okIn := prevIn.(*document.Object)
		po, okOut := prevOut.(*document.Object)
		for _, key := range t.Keys() {
			val, _ := t.Get(key)
			var childIn, childOut document.Value
			if okIn {
				childIn, _ = pi.Get(key)
			}
			if okOut {
				childOut, _ = po.Get(key)
			}
			diffWalk(val, childIn, childOut, childPath(path, key), result)
		}
	case document.Array:
		pi, okIn := prevIn.(document.Array)
		po, okOut := prevOut.(document.Array)
		// A changed array length is a structural divergence: the whole
		// subtree is retranslated.
		aligned := okIn && okOut && len(pi) == len(t) && len(po) == len(t)
		for i, val := range t {
			var childIn, childOut document.Value
			if aligned {
				childIn, childOut = pi[i], po[i]
			}
			diffWalk(val, childIn, childOut, childPath(path, strconv.Itoa(i)), result)
		}
	case string:
		if strings.TrimSpace(t) == "" {
			return
		}
		prevText, okIn := prevIn.(string)
		prevTranslated, okOut := prevOut.(string)
		if okIn && okOut && prevText == t {
			result.Reused[path.String()] = prevTranslated
			return
		}
		result.Changed = append(result.Changed, document.Leaf{Path: path, Text: t})
	}
}

func childPath(p document.Path, seg string) document.Path {
	out := make(document.Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}
