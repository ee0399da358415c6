package pattern

import (
	"sort"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// Set is an ordered collection of patterns, sorted by frequency descending.
// It keeps no signature index of its own: BySignature scans every pattern,
// and the cache package layers an index over it.
type Set struct {
	Patterns []*Pattern
}

// New returns an empty pattern set.
func New() *Set {
	return &Set{}
}

// Add appends p and keeps the set sorted by frequency descending (ties
// broken by higher confidence).
func (s *Set) Add(p *Pattern) {
	s.Patterns = append(s.Patterns, p)
	s.sort()
}

func (s *Set) sort() {
	sort.SliceStable(s.Patterns, func(i, j int) bool {
		a, b := s.Patterns[i], s.Patterns[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Confidence > b.Confidence
	})
}

// BySignature returns every pattern whose Signature() equals sig, ordered
// by specificity (literal count) descending, then frequency descending —
// the order the matcher walks candidates in.
func (s *Set) BySignature(sig token.Signature) []*Pattern {
	var out []*Pattern
	for _, p := range s.Patterns {
		if p.Signature() == sig {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LiteralCount() != b.LiteralCount() {
			return a.LiteralCount() > b.LiteralCount()
		}
		return a.Frequency > b.Frequency
	})
	return out
}
