// Package pattern synthesizes clusters of tokenized lines into patterns of
// fixed literals and variable fields, and holds the frequency-ordered set
// of learned patterns.
package pattern

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/cc-tundra/logpattern/pkg/logpattern/clustering"
	"github.com/cc-tundra/logpattern/pkg/logpattern/naming"
	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// ElementKind distinguishes a fixed-literal pattern position from a
// variable-field one.
type ElementKind int

const (
	Literal ElementKind = iota
	Field
)

// Element is one position in a Pattern.
type Element struct {
	Kind      ElementKind
	TokenType token.Type
	Value     string // set when Kind == Literal
	FieldName string // set when Kind == Field
}

// Pattern is a learned line template: a fixed-length sequence of elements
// plus the bookkeeping the merger and matcher need.
type Pattern struct {
	ID         string
	Elements   []Element
	Frequency  int
	Confidence float64
}

// LiteralCount returns how many of the pattern's elements are literals.
func (p *Pattern) LiteralCount() int {
	n := 0
	for _, e := range p.Elements {
		if e.Kind == Literal {
			n++
		}
	}
	return n
}

// Signature is the element-position token-type signature of the pattern,
// identical in shape to token.Sig of a matching line.
func (p *Pattern) Signature() token.Signature {
	seq := make([]token.Type, len(p.Elements))
	for i, e := range p.Elements {
		seq[i] = e.TokenType
	}
	b := make([]byte, 0, len(seq)*2)
	for i, t := range seq {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, byte('0'+t))
	}
	return token.Signature(b)
}

var idCounter int64

func nextID() string {
	return fmt.Sprintf("p_%d", atomic.AddInt64(&idCounter, 1))
}

// Synthesize distills one cluster into a single pattern. Every member of
// the cluster must share the cluster's token count; positions where member
// token types disagree (possible only after Stage B merged clusters of
// equal signature) widen to the most permissive common ancestor.
func Synthesize(c *clustering.Cluster) *Pattern {
	if len(c.Members) == 0 {
		return nil
	}

	n := len(c.Members[0].Tokens)
	elements := make([]Element, n)
	taken := make(map[string]bool)

	for i := 0; i < n; i++ {
		typ := widenedType(c, i)
		value, uniform := uniformValue(c, i)

		if uniform {
			elements[i] = Element{Kind: Literal, TokenType: typ, Value: value}
			continue
		}

		var prev, next *token.Token
		tokens := c.Members[0].Tokens
		for j := i - 1; j >= 0; j-- {
			if tokens[j].Type != token.WHITESPACE {
				prev = &tokens[j]
				break
			}
		}
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j].Type != token.WHITESPACE {
				next = &tokens[j]
				break
			}
		}
		name := naming.InferFieldName(tokens[i], i, prev, next, tokens, taken)
		taken[name] = true
		elements[i] = Element{Kind: Field, TokenType: typ, FieldName: name}
	}

	literalCount := 0
	for _, e := range elements {
		if e.Kind == Literal {
			literalCount++
		}
	}

	return &Pattern{
		ID:         nextID(),
		Elements:   elements,
		Frequency:  len(c.Members),
		Confidence: float64(literalCount) / float64(n),
	}
}

func uniformValue(c *clustering.Cluster, pos int) (string, bool) {
	first := c.Members[0].Tokens[pos].Value
	for _, m := range c.Members[1:] {
		if pos >= len(m.Tokens) || m.Tokens[pos].Value != first {
			return "", false
		}
	}
	return first, true
}

// widenedType returns the common token type at pos across all members,
// widening disagreements per the normative rule: NUMBER/WORD widen to
// WORD; disparate composite types widen to WORD.
func widenedType(c *clustering.Cluster, pos int) token.Type {
	first := c.Members[0].Tokens[pos].Type
	uniform := true
	for _, m := range c.Members[1:] {
		if pos >= len(m.Tokens) || m.Tokens[pos].Type != first {
			uniform = false
			break
		}
	}
	if uniform {
		return first
	}
	return token.WORD
}
