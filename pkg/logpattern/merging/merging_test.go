package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

type elemSpec struct {
	kind  pattern.ElementKind
	typ   token.Type
	value string
}

func makePattern(specs []elemSpec, frequency int) *pattern.Pattern {
	elements := make([]pattern.Element, len(specs))
	for i, s := range specs {
		if s.kind == pattern.Literal {
			elements[i] = pattern.Element{Kind: pattern.Literal, TokenType: s.typ, Value: s.value}
		} else {
			elements[i] = pattern.Element{Kind: pattern.Field, TokenType: s.typ, FieldName: s.value}
		}
	}
	return &pattern.Pattern{ID: "test", Elements: elements, Frequency: frequency, Confidence: 1.0}
}

func TestCanMergeIdenticalPatterns(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Literal, token.WORD, "INFO"}}, 1)
	p2 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Literal, token.WORD, "INFO"}}, 1)
	assert.True(t, CanMerge(p1, p2))
}

func TestCanMergeSameTypesDifferentLiterals(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Literal, token.WORD, "INFO"}}, 1)
	p2 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Literal, token.WORD, "ERROR"}}, 1)
	assert.True(t, CanMerge(p1, p2))
}

func TestCanMergeDifferentLengths(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WORD, "INFO"}}, 1)
	p2 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WORD, "INFO"}, {pattern.Field, token.NUMBER, "count"}}, 1)
	assert.False(t, CanMerge(p1, p2))
}

func TestCanMergeDifferentTokenTypes(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Field, token.NUMBER, "value"}}, 1)
	p2 := makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Field, token.WORD, "name"}}, 1)
	assert.False(t, CanMerge(p1, p2))
}

func TestMergeTwoSameLiterals(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Literal, token.WORD, "INFO"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "msg"}}, 5)
	p2 := makePattern([]elemSpec{{pattern.Literal, token.WORD, "INFO"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "msg"}}, 3)

	merged := MergeTwo(p1, p2)
	assert.Equal(t, 8, merged.Frequency)
	assert.Equal(t, pattern.Literal, merged.Elements[0].Kind)
	assert.Equal(t, "INFO", merged.Elements[0].Value)
}

func TestMergeTwoDifferentLiteralsBecomeFields(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Literal, token.WORD, "INFO"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "msg"}}, 5)
	p2 := makePattern([]elemSpec{{pattern.Literal, token.WORD, "ERROR"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "msg"}}, 3)

	merged := MergeTwo(p1, p2)
	assert.Equal(t, pattern.Field, merged.Elements[0].Kind)
	assert.Equal(t, token.WORD, merged.Elements[0].TokenType)
}

func TestMergeTwoWeightedConfidence(t *testing.T) {
	p1 := makePattern([]elemSpec{{pattern.Field, token.WORD, "msg"}}, 10)
	p1.Confidence = 0.9
	p2 := makePattern([]elemSpec{{pattern.Field, token.WORD, "msg"}}, 10)
	p2.Confidence = 0.7

	merged := MergeTwo(p1, p2)
	assert.InDelta(t, 0.8, merged.Confidence, 1e-9)
}

func TestMergePatternsSimilarPatterns(t *testing.T) {
	patterns := []*pattern.Pattern{
		makePattern([]elemSpec{{pattern.Literal, token.WORD, "INFO"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "m"}}, 5),
		makePattern([]elemSpec{{pattern.Literal, token.WORD, "WARN"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "m"}}, 3),
		makePattern([]elemSpec{{pattern.Literal, token.WORD, "ERROR"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "m"}}, 2),
	}

	result := MergePatterns(patterns)
	assert.Len(t, result, 1)
	assert.Equal(t, 10, result[0].Frequency)
}

func TestMergePatternsDifferentStructures(t *testing.T) {
	patterns := []*pattern.Pattern{
		makePattern([]elemSpec{{pattern.Literal, token.WORD, "INFO"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "m"}}, 1),
		makePattern([]elemSpec{{pattern.Field, token.TIMESTAMP, "ts"}, {pattern.Literal, token.WHITESPACE, " "}, {pattern.Field, token.WORD, "m"}}, 1),
	}
	result := MergePatterns(patterns)
	assert.Len(t, result, 2)
}

func TestMergePatternsSingleUnchanged(t *testing.T) {
	patterns := []*pattern.Pattern{makePattern([]elemSpec{{pattern.Field, token.WORD, "msg"}}, 5)}
	result := MergePatterns(patterns)
	assert.Len(t, result, 1)
	assert.Equal(t, 5, result[0].Frequency)
}

func TestMergePatternsEmpty(t *testing.T) {
	result := MergePatterns(nil)
	assert.Empty(t, result)
}

func TestMergePatternSetSortedByFrequency(t *testing.T) {
	ps := pattern.New()
	ps.Add(makePattern([]elemSpec{{pattern.Field, token.NUMBER, "n"}}, 2))
	ps.Add(makePattern([]elemSpec{{pattern.Field, token.WORD, "w"}}, 10))

	merged := MergePatternSet(ps)
	assert.GreaterOrEqual(t, merged.Patterns[0].Frequency, merged.Patterns[len(merged.Patterns)-1].Frequency)
}
