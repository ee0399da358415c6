package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

func TestTokenizeSimple(t *testing.T) {
	tokens := Tokenize("INFO test")
	assert.Len(t, tokens, 3)
	assert.Equal(t, token.WORD, tokens[0].Type)
	assert.Equal(t, token.WHITESPACE, tokens[1].Type)
	assert.Equal(t, token.WORD, tokens[2].Type)
	assert.Equal(t, "INFO", tokens[0].Value)
	assert.Equal(t, " ", tokens[1].Value)
	assert.Equal(t, "test", tokens[2].Value)
}

func TestTokenizeReconstructsLine(t *testing.T) {
	lines := []string{
		"INFO test",
		`192.168.1.1 GET /api/v1/users 200 "some message" [extra]`,
		"2024-01-15T10:30:00Z user@example.com visited http://example.com/path?q=1",
		"",
		"   leading whitespace",
		"unterminated \"quote here",
		"unmatched [bracket here",
	}
	for _, line := range lines {
		var b strings.Builder
		for _, tok := range Tokenize(line) {
			b.WriteString(tok.Value)
		}
		assert.Equal(t, line, b.String(), "tokens must reconstruct %q", line)
	}
}

func TestTokenizeIP(t *testing.T) {
	tokens := Tokenize("192.168.1.1 connected")
	assert.Equal(t, token.IP, tokens[0].Type)
	assert.Equal(t, "192.168.1.1", tokens[0].Value)
}

func TestTokenizeQuoted(t *testing.T) {
	tokens := Tokenize(`say "hello world" now`)
	found := false
	for _, tok := range tokens {
		if tok.Type == token.QUOTED {
			assert.Equal(t, `"hello world"`, tok.Value)
			found = true
		}
	}
	assert.True(t, found)
}

func TestTokenizeBracketed(t *testing.T) {
	tokens := Tokenize("value [nested [inner] end] done")
	found := false
	for _, tok := range tokens {
		if tok.Type == token.BRACKETED {
			assert.Equal(t, "[nested [inner] end]", tok.Value)
			found = true
		}
	}
	assert.True(t, found)
}

func TestTokenizeUUID(t *testing.T) {
	tokens := Tokenize("id=550e8400-e29b-41d4-a716-446655440000 done")
	found := false
	for _, tok := range tokens {
		if tok.Type == token.UUID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTokenizeNumber(t *testing.T) {
	tokens := Tokenize("count -12.5e3 done")
	hasNumber := false
	for _, tok := range tokens {
		if tok.Type == token.NUMBER {
			hasNumber = true
		}
	}
	assert.True(t, hasNumber)
}
