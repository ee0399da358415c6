// Package merging collapses structurally compatible patterns, preserving
// frequency and a frequency-weighted confidence.
package merging

import (
	"fmt"
	"sort"

	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
)

// CanMerge reports whether p and q can be merged: equal length and equal
// token type at every position. Literal-vs-field and literal value
// differences never block merging.
func CanMerge(p, q *pattern.Pattern) bool {
	if len(p.Elements) != len(q.Elements) {
		return false
	}
	for i := range p.Elements {
		if p.Elements[i].TokenType != q.Elements[i].TokenType {
			return false
		}
	}
	return true
}

// MergeTwo merges p and q into a new pattern. A position stays a literal
// only if both sides are literals of the identical value; otherwise it
// becomes a field, inheriting a name from whichever side already had one.
func MergeTwo(p, q *pattern.Pattern) *pattern.Pattern {
	n := len(p.Elements)
	elements := make([]pattern.Element, n)
	taken := make(map[string]bool)

	for i := 0; i < n; i++ {
		pe, qe := p.Elements[i], q.Elements[i]

		if pe.Kind == pattern.Literal && qe.Kind == pattern.Literal && pe.Value == qe.Value {
			elements[i] = pattern.Element{Kind: pattern.Literal, TokenType: pe.TokenType, Value: pe.Value}
			continue
		}

		name := fieldNameFor(pe, qe, i, taken)
		taken[name] = true
		elements[i] = pattern.Element{Kind: pattern.Field, TokenType: pe.TokenType, FieldName: name}
	}

	freq := p.Frequency + q.Frequency
	confidence := 0.0
	if freq > 0 {
		confidence = (p.Confidence*float64(p.Frequency) + q.Confidence*float64(q.Frequency)) / float64(freq)
	}

	return &pattern.Pattern{
		ID:         p.ID,
		Elements:   elements,
		Frequency:  freq,
		Confidence: confidence,
	}
}

func fieldNameFor(pe, qe pattern.Element, index int, taken map[string]bool) string {
	if pe.Kind == pattern.Field && pe.FieldName != "" {
		return dedupe(pe.FieldName, taken)
	}
	if qe.Kind == pattern.Field && qe.FieldName != "" {
		return dedupe(qe.FieldName, taken)
	}
	return dedupe(fmt.Sprintf("field_%d", index), taken)
}

func dedupe(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// MergePatterns repeatedly merges any mergeable pair (scanning by index,
// deterministic discovery order) until no pair is left mergeable. The
// result is sorted by frequency descending, ties broken by confidence
// descending.
func MergePatterns(patterns []*pattern.Pattern) []*pattern.Pattern {
	if len(patterns) == 0 {
		return []*pattern.Pattern{}
	}

	working := make([]*pattern.Pattern, len(patterns))
	copy(working, patterns)

	for {
		mergedAny := false
		for i := 0; i < len(working); i++ {
			for j := i + 1; j < len(working); j++ {
				if CanMerge(working[i], working[j]) {
					merged := MergeTwo(working[i], working[j])
					working[i] = merged
					working = append(working[:j], working[j+1:]...)
					mergedAny = true
					break
				}
			}
			if mergedAny {
				break
			}
		}
		if !mergedAny {
			break
		}
	}

	sort.SliceStable(working, func(i, j int) bool {
		a, b := working[i], working[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Confidence > b.Confidence
	})
	return working
}

// MergePatternSet returns a new pattern.Set with merge_patterns applied to
// its contents.
func MergePatternSet(ps *pattern.Set) *pattern.Set {
	out := pattern.New()
	for _, p := range MergePatterns(ps.Patterns) {
		out.Add(p)
	}
	return out
}
