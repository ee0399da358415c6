// Package naming infers stable, human-readable field names for pattern
// field positions from their tokenized context.
package naming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

var indicatorWords = map[string]bool{
	"status": true, "user": true, "id": true, "host": true, "port": true,
	"path": true, "method": true, "code": true, "error": true, "time": true,
	"duration": true, "size": true, "bytes": true,
}

var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
	"HEAD": true, "OPTIONS": true, "CONNECT": true, "TRACE": true,
}

var levelWords = map[string]bool{
	"INFO": true, "WARN": true, "ERROR": true, "DEBUG": true, "TRACE": true, "FATAL": true,
}

var canonicalByType = map[token.Type]string{
	token.QUOTED:    "message",
	token.NUMBER:    "value",
	token.IP:        "ip",
	token.TIMESTAMP: "timestamp",
	token.EMAIL:     "email",
	token.URL:       "url",
	token.UUID:      "uuid",
	token.WORD:      "value",
	token.BRACKETED: "value",
	token.PUNCT:     "value",
}

// InferFieldName picks a field name for tok given its surrounding context.
// prevNonWS and nextNonWS may be nil when no such neighbor exists. taken is
// consulted to keep the returned name unique within the pattern being built.
// When an operator has installed a RuleSet via SetActiveRules, its rules are
// tried first and the built-in heuristics only run on a miss.
func InferFieldName(tok token.Token, index int, prevNonWS, nextNonWS *token.Token, siblings []token.Token, taken map[string]bool) string {
	if rs := activeRules.Load(); rs != nil {
		if name, ok := rs.match(tok, index, prevNonWS, nextNonWS); ok {
			return dedupe(name, taken)
		}
	}
	name := baseName(tok, prevNonWS)
	return dedupe(name, taken)
}

func baseName(tok token.Token, prevNonWS *token.Token) string {
	if prevNonWS != nil {
		if indicatorWords[strings.ToLower(prevNonWS.Value)] {
			return strings.ToLower(prevNonWS.Value)
		}
	}

	if tok.Type == token.WORD {
		if httpMethods[tok.Value] {
			return "method"
		}
		if levelWords[strings.ToUpper(tok.Value)] {
			return "level"
		}
		if strings.HasPrefix(tok.Value, "/") {
			return "path"
		}
		if looksLikeUUID(tok.Value) {
			return "uuid"
		}
	}

	if tok.Type == token.NUMBER {
		if n, err := strconv.Atoi(tok.Value); err == nil && len(tok.Value) >= 3 && len(tok.Value) <= 4 && n >= 100 && n <= 599 {
			return "status"
		}
	}

	if canonical, ok := canonicalByType[tok.Type]; ok {
		return canonical
	}
	return "value"
}

func looksLikeUUID(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return false
	}
	lens := []int{8, 4, 4, 4, 12}
	for i, p := range parts {
		if len(p) != lens[i] {
			return false
		}
	}
	return true
}

func dedupe(name string, taken map[string]bool) string {
	if taken == nil || !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
