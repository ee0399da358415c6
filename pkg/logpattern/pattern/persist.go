package pattern

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/linkedin/goavro/v2"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// avroSchema describes one learned Pattern as an Avro record, letting a
// PatternSet be saved once by `learn` and reused by later `parse`/`drift`
// invocations without relearning.
const avroSchema = `{
  "type": "record",
  "name": "Pattern",
  "fields": [
    {"name": "id", "type": "string"},
    {"name": "frequency", "type": "int"},
    {"name": "confidence", "type": "double"},
    {"name": "elements", "type": {"type": "array", "items": {
      "type": "record",
      "name": "Element",
      "fields": [
        {"name": "kind", "type": "string"},
        {"name": "token_type", "type": "int"},
        {"name": "value", "type": ["null", "string"], "default": null},
        {"name": "field_name", "type": ["null", "string"], "default": null}
      ]
    }}}
  ]
}`

var avroCodec *goavro.Codec

func init() {
	c, err := goavro.NewCodec(avroSchema)
	if err != nil {
		panic(fmt.Sprintf("logpattern: invalid pattern avro schema: %v", err))
	}
	avroCodec = c
}

// Save writes ps to path as a sequence of length-prefixed Avro-encoded
// records.
func (s *Set) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("logpattern: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range s.Patterns {
		native := patternToNative(p)
		bin, err := avroCodec.BinaryFromNative(nil, native)
		if err != nil {
			return fmt.Errorf("logpattern: encode pattern %s: %w", p.ID, err)
		}
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(bin)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(bin); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads a pattern set previously written by Save.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logpattern: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	out := New()
	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("logpattern: read record length: %w", err)
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		bin := make([]byte, n)
		if _, err := io.ReadFull(r, bin); err != nil {
			return nil, fmt.Errorf("logpattern: read record: %w", err)
		}
		native, _, err := avroCodec.NativeFromBinary(bin)
		if err != nil {
			return nil, fmt.Errorf("logpattern: decode pattern: %w", err)
		}
		out.Add(nativeToPattern(native))
	}
	return out, nil
}

func patternToNative(p *Pattern) map[string]any {
	elements := make([]any, len(p.Elements))
	for i, e := range p.Elements {
		elem := map[string]any{
			"token_type": int32(e.TokenType),
			"value":      nil,
			"field_name": nil,
		}
		if e.Kind == Literal {
			elem["kind"] = "literal"
			elem["value"] = goavro.Union("string", e.Value)
		} else {
			elem["kind"] = "field"
			elem["field_name"] = goavro.Union("string", e.FieldName)
		}
		elements[i] = elem
	}
	return map[string]any{
		"id":         p.ID,
		"frequency":  int32(p.Frequency),
		"confidence": p.Confidence,
		"elements":   elements,
	}
}

func nativeToPattern(native any) *Pattern {
	m := native.(map[string]any)
	rawElements := m["elements"].([]any)
	elements := make([]Element, len(rawElements))
	for i, re := range rawElements {
		em := re.(map[string]any)
		kind := em["kind"].(string)
		if kind == "literal" {
			elements[i] = Element{
				Kind:      Literal,
				TokenType: token.Type(em["token_type"].(int32)),
				Value:     unwrapUnion(em["value"]),
			}
		} else {
			elements[i] = Element{
				Kind:      Field,
				TokenType: token.Type(em["token_type"].(int32)),
				FieldName: unwrapUnion(em["field_name"]),
			}
		}
	}
	return &Pattern{
		ID:         m["id"].(string),
		Frequency:  int(m["frequency"].(int32)),
		Confidence: m["confidence"].(float64),
		Elements:   elements,
	}
}

func unwrapUnion(v any) string {
	if v == nil {
		return ""
	}
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["string"].(string); ok {
			return s
		}
	}
	return ""
}
