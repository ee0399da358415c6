package token

import (
	"encoding/json"
	"net"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cc-tundra/logpattern/pkg/logpattern/timeparse"
)

// FieldType is the primitive type a TypedValue was detected as.
type FieldType int

const (
	FieldSTRING FieldType = iota
	FieldINTEGER
	FieldFLOAT
	FieldBOOL
	FieldTIMESTAMP
	FieldIP
	FieldUUID
	FieldURL
	FieldEMAIL
	FieldJSON
	FieldNULL
)

var fieldTypeNames = [...]string{
	"STRING", "INTEGER", "FLOAT", "BOOL", "TIMESTAMP",
	"IP", "UUID", "URL", "EMAIL", "JSON", "NULL",
}

func (f FieldType) String() string {
	if int(f) >= 0 && int(f) < len(fieldTypeNames) {
		return fieldTypeNames[f]
	}
	return "STRING"
}

// TypedValue is the tagged result of detecting a primitive type for a raw
// token value.
type TypedValue struct {
	FieldType FieldType
	Raw       string
	Value     any
}

// DetectType runs the fixed-order detection cascade from a raw token value
// down to STRING, the universal sink. It never errors: every input produces
// a TypedValue.
func DetectType(raw string) TypedValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return TypedValue{FieldType: FieldNULL, Raw: raw, Value: nil}
	}

	if b, ok := parseBool(trimmed); ok {
		return TypedValue{FieldType: FieldBOOL, Raw: raw, Value: b}
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return TypedValue{FieldType: FieldINTEGER, Raw: raw, Value: i}
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return TypedValue{FieldType: FieldFLOAT, Raw: raw, Value: f}
	}

	if id, err := uuid.Parse(trimmed); err == nil {
		return TypedValue{FieldType: FieldUUID, Raw: raw, Value: id.String()}
	}

	if ip := net.ParseIP(trimmed); ip != nil {
		return TypedValue{FieldType: FieldIP, Raw: raw, Value: ip.String()}
	}

	if u, err := url.ParseRequestURI(trimmed); err == nil && u.Scheme != "" && u.Host != "" {
		return TypedValue{FieldType: FieldURL, Raw: raw, Value: u.String()}
	}

	if addr, err := mail.ParseAddress(trimmed); err == nil {
		return TypedValue{FieldType: FieldEMAIL, Raw: raw, Value: addr.Address}
	}

	if ts, ok := timeparse.ParseTimestamp(trimmed); ok {
		return TypedValue{FieldType: FieldTIMESTAMP, Raw: raw, Value: ts}
	}

	if looksLikeJSON(trimmed) {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return TypedValue{FieldType: FieldJSON, Raw: raw, Value: v}
		}
	}

	return TypedValue{FieldType: FieldSTRING, Raw: raw, Value: trimmed}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// looksLikeJSON performs a cheap balanced-bracket check before paying for a
// full unmarshal attempt.
func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	open, close := s[0], s[len(s)-1]
	return (open == '{' && close == '}') || (open == '[' && close == ']')
}
