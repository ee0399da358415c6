package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

func TestInferFieldNameFromPrevIndicator(t *testing.T) {
	statusWord := token.Token{Type: token.WORD, Value: "status"}
	tok := token.Token{Type: token.NUMBER, Value: "200"}
	name := InferFieldName(tok, 1, &statusWord, nil, nil, nil)
	assert.Equal(t, "status", name)
}

func TestInferFieldNameHTTPMethod(t *testing.T) {
	tok := token.Token{Type: token.WORD, Value: "GET"}
	name := InferFieldName(tok, 0, nil, nil, nil, nil)
	assert.Equal(t, "method", name)
}

func TestInferFieldNameNumberDoesNotMatchStatusAtFiveDigits(t *testing.T) {
	tok := token.Token{Type: token.NUMBER, Value: "12345"}
	taken := map[string]bool{"value": true}
	name := InferFieldName(tok, 0, nil, nil, nil, taken)
	assert.Equal(t, "value_1", name)
}

func TestInferFieldNameStatusCodeRange(t *testing.T) {
	tok := token.Token{Type: token.NUMBER, Value: "404"}
	name := InferFieldName(tok, 0, nil, nil, nil, nil)
	assert.Equal(t, "status", name)
}

func TestInferFieldNameLevelWord(t *testing.T) {
	tok := token.Token{Type: token.WORD, Value: "ERROR"}
	name := InferFieldName(tok, 0, nil, nil, nil, nil)
	assert.Equal(t, "level", name)
}

func TestInferFieldNameCanonicalFallback(t *testing.T) {
	tok := token.Token{Type: token.QUOTED, Value: `"hi"`}
	name := InferFieldName(tok, 0, nil, nil, nil, nil)
	assert.Equal(t, "message", name)
}

func TestInferFieldNameDedupeChain(t *testing.T) {
	taken := map[string]bool{"value": true, "value_1": true}
	tok := token.Token{Type: token.NUMBER, Value: "99999"}
	name := InferFieldName(tok, 0, nil, nil, nil, taken)
	assert.Equal(t, "value_2", name)
}
