// Package tokenizer implements the single left-to-right scan that turns a
// raw log line into an ordered sequence of typed tokens.
package tokenizer

import (
	"net"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/cc-tundra/logpattern/pkg/logpattern/timeparse"
	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

var (
	isoTimestampRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?`)
	apacheTimestamp  = regexp.MustCompile(`^\d{2}/[A-Za-z]{3}/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4}`)
	syslogTimestamp  = regexp.MustCompile(`^[A-Za-z]{3} {1,2}\d{1,2} \d{2}:\d{2}:\d{2}`)
	ipv4Re           = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}`)
	ipv6Re           = regexp.MustCompile(`^[0-9A-Fa-f]*(:[0-9A-Fa-f]*){2,7}`)
	urlSchemeRe      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^\s"'\]\)]+`)
	emailRe          = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	uuidRe           = regexp.MustCompile(`^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}`)
	numberRe         = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?`)
	whitespaceRe     = regexp.MustCompile(`^[ \t]+`)
)

var bracketPairs = map[rune]rune{'[': ']', '(': ')', '{': '}'}

// Tokenize splits a single line (trailing newline already stripped) into an
// ordered token sequence. Concatenating the returned tokens' values always
// reproduces the input exactly.
func Tokenize(line string) []token.Token {
	runes := []rune(line)
	var out []token.Token
	pos := 0
	byteOffset := 0

	for pos < len(runes) {
		rest := string(runes[pos:])

		if tok, n, ok := matchComposite(rest, byteOffset); ok {
			out = append(out, tok)
			pos += n
			byteOffset += len(tok.Value)
			continue
		}

		if tok, n, ok := matchQuoted(runes, pos, byteOffset); ok {
			out = append(out, tok)
			pos += n
			byteOffset += len(tok.Value)
			continue
		}

		if tok, n, ok := matchBracketed(runes, pos, byteOffset); ok {
			out = append(out, tok)
			pos += n
			byteOffset += len(tok.Value)
			continue
		}

		if m := numberRe.FindString(rest); m != "" {
			n := len([]rune(m))
			out = append(out, token.Token{Type: token.NUMBER, Value: m, Start: byteOffset, End: byteOffset + len(m)})
			pos += n
			byteOffset += len(m)
			continue
		}

		if n, val, ok := matchWord(runes, pos); ok {
			out = append(out, token.Token{Type: token.WORD, Value: val, Start: byteOffset, End: byteOffset + len(val)})
			pos += n
			byteOffset += len(val)
			continue
		}

		if m := whitespaceRe.FindString(rest); m != "" {
			n := len([]rune(m))
			out = append(out, token.Token{Type: token.WHITESPACE, Value: m, Start: byteOffset, End: byteOffset + len(m)})
			pos += n
			byteOffset += len(m)
			continue
		}

		// PUNCT: single remaining character.
		r := runes[pos]
		val := string(r)
		out = append(out, token.Token{Type: token.PUNCT, Value: val, Start: byteOffset, End: byteOffset + len(val)})
		pos++
		byteOffset += len(val)
	}

	return out
}

// matchComposite tries the longest-match-wins composite recognizers in
// priority order: TIMESTAMP, IP, URL, EMAIL, UUID.
func matchComposite(rest string, byteOffset int) (token.Token, int, bool) {
	type candidate struct {
		typ token.Type
		val string
	}
	var best *candidate

	consider := func(typ token.Type, val string) {
		if val == "" {
			return
		}
		if best == nil || len(val) > len(best.val) {
			best = &candidate{typ: typ, val: val}
		}
	}

	if m := isoTimestampRe.FindString(rest); m != "" && timeparse.IsLikelyTimestamp(m) {
		consider(token.TIMESTAMP, m)
	}
	if m := apacheTimestamp.FindString(rest); m != "" && timeparse.IsLikelyTimestamp(m) {
		consider(token.TIMESTAMP, m)
	}
	if m := syslogTimestamp.FindString(rest); m != "" {
		consider(token.TIMESTAMP, m)
	}
	if m := ipv4Re.FindString(rest); m != "" && validIPv4(m) {
		consider(token.IP, m)
	}
	if m := ipv6Re.FindString(rest); m != "" && strings.Count(m, ":") >= 2 && net.ParseIP(m) != nil {
		consider(token.IP, m)
	}
	if m := urlSchemeRe.FindString(rest); m != "" {
		consider(token.URL, m)
	}
	if m := emailRe.FindString(rest); m != "" {
		consider(token.EMAIL, m)
	}
	if m := uuidRe.FindString(rest); m != "" {
		consider(token.UUID, m)
	}

	if best == nil {
		return token.Token{}, 0, false
	}
	n := len([]rune(best.val))
	return token.Token{Type: best.typ, Value: best.val, Start: byteOffset, End: byteOffset + len(best.val)}, n, true
}

func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return net.ParseIP(s) != nil
}

// matchQuoted scans a "…" or '…' run with backslash escapes. An
// unterminated quote degrades the opening character to PUNCT so the scan
// can make progress.
func matchQuoted(runes []rune, pos int, byteOffset int) (token.Token, int, bool) {
	quote := runes[pos]
	if quote != '"' && quote != '\'' {
		return token.Token{}, 0, false
	}
	i := pos + 1
	for i < len(runes) {
		if runes[i] == '\\' && i+1 < len(runes) {
			i += 2
			continue
		}
		if runes[i] == quote {
			val := string(runes[pos : i+1])
			return token.Token{Type: token.QUOTED, Value: val, Start: byteOffset, End: byteOffset + len(val)}, i + 1 - pos, true
		}
		i++
	}
	return token.Token{}, 0, false
}

// matchBracketed scans a balanced [...] (...) or {...} run. Nested brackets
// of the same opener/closer pair are tracked so the match spans to the
// correct close. An unmatched opener degrades to PUNCT.
func matchBracketed(runes []rune, pos int, byteOffset int) (token.Token, int, bool) {
	open := runes[pos]
	close, ok := bracketPairs[open]
	if !ok {
		return token.Token{}, 0, false
	}
	depth := 1
	i := pos + 1
	for i < len(runes) {
		switch runes[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				val := string(runes[pos : i+1])
				return token.Token{Type: token.BRACKETED, Value: val, Start: byteOffset, End: byteOffset + len(val)}, i + 1 - pos, true
			}
		}
		i++
	}
	return token.Token{}, 0, false
}

// matchWord scans a maximal run of letters/digits/_/-//. that wasn't
// claimed by a more specific recognizer, so e.g. "/api/v1" becomes one WORD.
func matchWord(runes []rune, pos int) (int, string, bool) {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '/' || r == '.'
	}
	if !isWordRune(runes[pos]) {
		return 0, "", false
	}
	i := pos
	for i < len(runes) && isWordRune(runes[i]) {
		i++
	}
	return i - pos, string(runes[pos:i]), true
}
