// Package sink writes parsed Records out in the formats downstream
// consumers expect: newline-delimited JSON for pipelines, CSV for
// spreadsheets and quick inspection.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cc-tundra/logpattern/pkg/logpattern/stream"
)

// JSONLine is the wire shape one Record is rendered as by WriteJSONLines.
type JSONLine struct {
	Line        int                    `json:"line"`
	PatternID   string                 `json:"pattern_id,omitempty"`
	Matched     bool                   `json:"matched"`
	Fields      map[string]string      `json:"fields,omitempty"`
	TypedFields map[string]interface{} `json:"typed_fields,omitempty"`
}

// WriteJSONLines writes one JSON object per Record, newline-delimited.
func WriteJSONLines(w io.Writer, records []stream.Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		line := JSONLine{
			Line:      rec.LineNumber,
			PatternID: rec.PatternID,
			Matched:   rec.Matched,
			Fields:    rec.Fields,
		}
		if rec.TypedFields != nil {
			line.TypedFields = make(map[string]interface{}, len(rec.TypedFields))
			for name, tv := range rec.TypedFields {
				line.TypedFields[name] = tv.Value
			}
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("logpattern: encode record %d: %w", rec.LineNumber, err)
		}
	}
	return nil
}

// WriteCSV writes records as a CSV table: a line/pattern_id/matched header
// followed by one column per distinct field name seen across all records,
// in sorted order, so the header is stable across runs of the same file.
func WriteCSV(w io.Writer, records []stream.Record) error {
	fieldNames := collectFieldNames(records)

	cw := csv.NewWriter(w)
	header := append([]string{"line", "pattern_id", "matched"}, fieldNames...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("%d", rec.LineNumber), rec.PatternID, fmt.Sprintf("%t", rec.Matched))
		for _, name := range fieldNames {
			row = append(row, rec.Fields[name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("logpattern: write csv row for line %d: %w", rec.LineNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func collectFieldNames(records []stream.Record) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for name := range rec.Fields {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
