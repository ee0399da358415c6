package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
	"github.com/cc-tundra/logpattern/pkg/logpattern/tokenizer"
)

func member(line string) Member {
	return Member{Tokens: tokenizer.Tokenize(line), Raw: line}
}

func TestSequenceSimilarityIdentical(t *testing.T) {
	seq := []token.Type{token.WORD, token.WHITESPACE, token.NUMBER}
	assert.Equal(t, 1.0, SequenceSimilarity(seq, seq))
}

func TestSequenceSimilarityCompletelyDifferent(t *testing.T) {
	a := []token.Type{token.WORD, token.WORD, token.WORD}
	b := []token.Type{token.NUMBER, token.IP, token.QUOTED}
	assert.Less(t, SequenceSimilarity(a, b), 0.5)
}

func TestSequenceSimilarityPartialOverlap(t *testing.T) {
	a := []token.Type{token.WORD, token.WHITESPACE, token.NUMBER}
	b := []token.Type{token.WORD, token.WHITESPACE, token.WORD}
	sim := SequenceSimilarity(a, b)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestSequenceSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 1.0, SequenceSimilarity(nil, nil))
}

func TestSequenceSimilarityOneEmpty(t *testing.T) {
	assert.Equal(t, 0.0, SequenceSimilarity([]token.Type{token.WORD}, nil))
	assert.Equal(t, 0.0, SequenceSimilarity(nil, []token.Type{token.WORD}))
}

func TestSequenceSimilarityDifferentLengths(t *testing.T) {
	a := []token.Type{token.WORD, token.WHITESPACE, token.NUMBER, token.WORD}
	b := []token.Type{token.WORD, token.WHITESPACE}
	sim := SequenceSimilarity(a, b)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestClusterByExactSignatureSameSignature(t *testing.T) {
	lines := []Member{
		member("INFO server started"),
		member("WARN server stopped"),
		member("ERROR server crashed"),
	}
	clusters := ClusterByExactSignature(lines)
	assert.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 3)
}

func TestClusterByExactSignatureDifferentSignatures(t *testing.T) {
	lines := []Member{
		member("INFO started"),
		member("192.168.1.1 connected"),
	}
	clusters := ClusterByExactSignature(lines)
	assert.Len(t, clusters, 2)
}

func TestClusterByExactSignatureEmpty(t *testing.T) {
	clusters := ClusterByExactSignature(nil)
	assert.Empty(t, clusters)
}

func TestClusterByExactSignatureSingleLine(t *testing.T) {
	clusters := ClusterByExactSignature([]Member{member("test line")})
	assert.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 1)
}

func TestRefineMergesSimilarClusters(t *testing.T) {
	lines := []Member{
		member("INFO server started"),
		member("INFO server stopped now"),
	}
	base := ClusterByExactSignature(lines)
	assert.Len(t, base, 2)
	refined := Refine(base, 0.5)
	assert.LessOrEqual(t, len(refined), len(base))
	assert.Len(t, refined, 1)
}
