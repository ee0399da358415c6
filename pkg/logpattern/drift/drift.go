// Package drift tracks which learned pattern dominates each window of
// parsed lines and reports format changes between consecutive windows.
package drift

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/common/model"

	"github.com/cc-tundra/logpattern/pkg/logpattern/metrics"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/stream"
)

// FormatChange records a boundary between two windows whose dominant
// pattern differs, strongly enough to treat as a format change.
type FormatChange struct {
	Line        int     `json:"line"`
	FromPattern string  `json:"from_pattern"`
	ToPattern   string  `json:"to_pattern"`
	Confidence  float64 `json:"confidence"`
}

// DominantPattern is the pattern that held the most matches in one window.
// Timestamp is the wall-clock moment the window was evaluated (Unix
// seconds), not anything parsed from the log lines themselves.
type DominantPattern struct {
	WindowStartLine int
	PatternID       string
	Timestamp       int64
}

// Report aggregates the outcome of one detect-drift run.
type Report struct {
	TotalLines          int
	MatchedLines        int
	PatternDistribution map[string]int
	FormatChanges       []FormatChange
	DominantPatterns    []DominantPattern
}

// MatchRate is MatchedLines/TotalLines, or 0 when TotalLines is 0.
func (r *Report) MatchRate() float64 {
	if r.TotalLines == 0 {
		return 0
	}
	return float64(r.MatchedLines) / float64(r.TotalLines)
}

// HasDrift is true when at least one format change was recorded, or more
// than one distinct pattern ever dominated a window.
func (r *Report) HasDrift() bool {
	if len(r.FormatChanges) > 0 {
		return true
	}
	distinct := map[string]bool{}
	for _, d := range r.DominantPatterns {
		distinct[d.PatternID] = true
	}
	return len(distinct) > 1
}

// Summary renders a short human-readable description of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d lines matched (%.1f%%), %d format change(s), %d distinct dominant pattern(s)",
		r.MatchedLines, r.TotalLines, r.MatchRate()*100, len(r.FormatChanges), len(distinctDominants(r)))
}

func distinctDominants(r *Report) map[string]bool {
	distinct := map[string]bool{}
	for _, d := range r.DominantPatterns {
		distinct[d.PatternID] = true
	}
	return distinct
}

// Detector holds the window configuration used by DetectDrift.
type Detector struct {
	WindowSize      int
	ChangeThreshold float64

	// Metrics, when set, is incremented once per reported FormatChange.
	Metrics *metrics.Collectors
}

// NewDetector builds a Detector with the documented defaults
// (window_size=100, change_threshold=0.5) when given non-positive values.
func NewDetector(windowSize int, changeThreshold float64) *Detector {
	if windowSize <= 0 {
		windowSize = 100
	}
	if changeThreshold <= 0 {
		changeThreshold = 0.5
	}
	return &Detector{WindowSize: windowSize, ChangeThreshold: changeThreshold}
}

// DetectDrift parses path against patterns and builds a Report over
// consecutive, non-overlapping windows of d.WindowSize records.
func (d *Detector) DetectDrift(ctx context.Context, path string, patterns *pattern.Set) (*Report, error) {
	records, err := stream.ParseAll(ctx, path, patterns, stream.ParseOptions{UseMmap: true, DetectTypes: false})
	if err != nil {
		return nil, err
	}

	report := &Report{
		PatternDistribution: map[string]int{},
	}
	report.TotalLines = len(records)

	globalFreq := globalFrequencies(patterns)
	windows := chunkRecords(records, d.WindowSize)

	var prevDominant string
	havePrev := false

	for _, w := range windows {
		counts := map[string]int{}
		for _, rec := range w {
			if rec.Matched {
				report.MatchedLines++
				report.PatternDistribution[rec.PatternID]++
				counts[rec.PatternID]++
			}
		}

		dominant, dominantCount := argmaxPattern(counts, globalFreq)
		report.DominantPatterns = append(report.DominantPatterns, DominantPattern{
			WindowStartLine: w[0].LineNumber,
			PatternID:       dominant,
			Timestamp:       metrics.WindowTimestamp(model.Now()),
		})

		if havePrev && dominant != prevDominant {
			confidence := 0.0
			if len(w) > 0 {
				confidence = float64(dominantCount) / float64(len(w))
			}
			if confidence >= d.ChangeThreshold {
				report.FormatChanges = append(report.FormatChanges, FormatChange{
					Line:        w[0].LineNumber,
					FromPattern: prevDominant,
					ToPattern:   dominant,
					Confidence:  confidence,
				})
				if d.Metrics != nil {
					d.Metrics.DriftEventsTotal.Inc()
				}
			}
		}

		prevDominant = dominant
		havePrev = true
	}

	return report, nil
}

func chunkRecords(records []stream.Record, windowSize int) [][]stream.Record {
	var windows [][]stream.Record
	for i := 0; i < len(records); i += windowSize {
		end := i + windowSize
		if end > len(records) {
			end = len(records)
		}
		windows = append(windows, records[i:end])
	}
	return windows
}

// globalFrequencies indexes patterns by id to their set-wide Frequency, the
// tie-break argmaxPattern uses per the glossary's "dominant pattern"
// definition.
func globalFrequencies(patterns *pattern.Set) map[string]int {
	freq := make(map[string]int, len(patterns.Patterns))
	for _, p := range patterns.Patterns {
		freq[p.ID] = p.Frequency
	}
	return freq
}

// argmaxPattern returns the pattern id with the highest in-window count,
// ties broken by higher global frequency, then by lexicographically
// smaller id for determinism.
func argmaxPattern(counts map[string]int, globalFreq map[string]int) (string, int) {
	if len(counts) == 0 {
		return "", 0
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := ids[0]
	bestCount := counts[best]
	for _, id := range ids[1:] {
		c := counts[id]
		switch {
		case c > bestCount:
			best, bestCount = id, c
		case c == bestCount && globalFreq[id] > globalFreq[best]:
			best = id
		}
	}
	return best, bestCount
}

// DetectDriftDefaults runs DetectDrift with the given window size and change
// threshold, substituting the documented defaults for non-positive values,
// matching the detect_drift(path, patterns, window_size?, change_threshold?)
// external interface.
func DetectDriftDefaults(ctx context.Context, path string, patterns *pattern.Set, windowSize int, changeThreshold float64) (*Report, error) {
	return NewDetector(windowSize, changeThreshold).DetectDrift(ctx, path, patterns)
}
