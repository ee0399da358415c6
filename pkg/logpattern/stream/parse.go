package stream

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cc-tundra/logpattern/pkg/logpattern/cache"
	"github.com/cc-tundra/logpattern/pkg/logpattern/metrics"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// Record is one parsed line: a matched pattern (or a flagged miss), its
// string-valued fields, and optionally its typed fields.
type Record struct {
	LineNumber  int
	Raw         string
	PatternID   string
	Matched     bool
	Fields      map[string]string
	TypedFields map[string]token.TypedValue
}

// ParseOptions configures stream_parse.
type ParseOptions struct {
	UseMmap     bool
	DetectTypes bool
	Callback    func(Record)

	// Metrics, when set, receives per-line observability counters. Optional.
	Metrics *metrics.Collectors
}

// DefaultParseOptions mirrors the documented defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{UseMmap: true, DetectTypes: true}
}

// StreamParse reads path and emits one Record per non-empty line, in
// source order, matched against patterns via a Cache built for this call.
// Blank lines are skipped: they never produce a record, but the line
// number reported on the next record still reflects their presence in the
// source file. The returned channel is closed once every line has been
// processed or ctx is cancelled.
func StreamParse(ctx context.Context, path string, patterns *pattern.Set, opts ParseOptions) (<-chan Record, error) {
	lines, err := ReadSource(ctx, path, opts.UseMmap)
	if err != nil {
		return nil, fmt.Errorf("logpattern: read %s: %w", path, err)
	}

	c := cache.New(patterns)
	if opts.Metrics != nil {
		c.WithMetrics(opts.Metrics.CacheHits, opts.Metrics.CacheMisses)
	}
	out := make(chan Record)

	go func() {
		defer close(out)
		if opts.Metrics != nil {
			timer := prometheus.NewTimer(opts.Metrics.ParseDuration)
			defer timer.ObserveDuration()
		}
		for i, line := range lines {
			if line == "" {
				continue
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			rec := buildRecord(c, i+1, line, opts.DetectTypes)
			if opts.Metrics != nil {
				opts.Metrics.LinesParsed.Inc()
				if rec.Matched {
					opts.Metrics.LinesMatched.Inc()
				}
			}
			if opts.Callback != nil {
				opts.Callback(rec)
			}

			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// ParseAll drains StreamParse into a slice; a convenience wrapper for
// callers that don't need incremental consumption.
func ParseAll(ctx context.Context, path string, patterns *pattern.Set, opts ParseOptions) ([]Record, error) {
	ch, err := StreamParse(ctx, path, patterns, opts)
	if err != nil {
		return nil, err
	}
	var records []Record
	for rec := range ch {
		records = append(records, rec)
	}
	return records, nil
}

func buildRecord(c *cache.Cache, lineNumber int, line string, detectTypes bool) Record {
	p, fields := c.Match(line)
	rec := Record{LineNumber: lineNumber, Raw: line}

	if p == nil {
		rec.Fields = map[string]string{}
		return rec
	}

	rec.PatternID = p.ID
	rec.Matched = true
	rec.Fields = fields

	if detectTypes {
		typed := make(map[string]token.TypedValue, len(fields))
		for name, val := range fields {
			typed[name] = token.DetectType(val)
		}
		rec.TypedFields = typed
	}

	return rec
}
