// Package cache implements the signature-indexed pattern matcher the
// streaming engine consults for every line.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
	"github.com/cc-tundra/logpattern/pkg/logpattern/tokenizer"
)

// defaultCapacity bounds the signature index so pattern sets with a huge
// number of distinct shapes can't grow the cache without bound; signatures
// evicted from the index are simply recomputed from Patterns on next use.
const defaultCapacity = 4096

// Cache is the PatternCache: an index from token signature to the patterns
// that share it, ordered by specificity then frequency as required by the
// match procedure. The index is not built at construction: entries are
// added lazily by Match and may be evicted by the bounded LRU, which is
// safe for concurrent use.
type Cache struct {
	Patterns *pattern.Set
	index    *lru.Cache[token.Signature, []*pattern.Pattern]

	Hits   prometheus.Counter
	Misses prometheus.Counter
}

// WithMetrics attaches hit/miss counters, returning c for chaining. Either
// argument may be nil to leave that counter unobserved.
func (c *Cache) WithMetrics(hits, misses prometheus.Counter) *Cache {
	c.Hits = hits
	c.Misses = misses
	return c
}

// New builds a Cache over ps with the default signature-index capacity.
func New(ps *pattern.Set) *Cache {
	return NewWithCapacity(ps, defaultCapacity)
}

// NewWithCapacity builds a Cache over ps with an explicit LRU capacity for
// the signature index.
func NewWithCapacity(ps *pattern.Set, capacity int) *Cache {
	idx, _ := lru.New[token.Signature, []*pattern.Pattern](capacity)
	return &Cache{Patterns: ps, index: idx}
}

func (c *Cache) candidates(sig token.Signature) []*pattern.Pattern {
	if v, ok := c.index.Get(sig); ok {
		return v
	}
	v := c.Patterns.BySignature(sig)
	c.index.Add(sig, v)
	return v
}

// Match tokenizes line and returns the first candidate pattern (by
// specificity, then frequency) whose literal positions all match, along
// with the extracted field values. A miss returns (nil, nil).
func (c *Cache) Match(line string) (*pattern.Pattern, map[string]string) {
	tokens := tokenizer.Tokenize(line)
	sig := token.Sig(tokens)

	for _, p := range c.candidates(sig) {
		if fields, ok := matchPattern(p, tokens); ok {
			if c.Hits != nil {
				c.Hits.Inc()
			}
			return p, fields
		}
	}
	if c.Misses != nil {
		c.Misses.Inc()
	}
	return nil, nil
}

func matchPattern(p *pattern.Pattern, tokens []token.Token) (map[string]string, bool) {
	if len(p.Elements) != len(tokens) {
		return nil, false
	}
	fields := make(map[string]string)
	for i, e := range p.Elements {
		switch e.Kind {
		case pattern.Literal:
			if tokens[i].Value != e.Value {
				return nil, false
			}
		case pattern.Field:
			fields[e.FieldName] = tokens[i].Value
		}
	}
	return fields, true
}
