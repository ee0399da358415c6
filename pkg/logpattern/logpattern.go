// Package logpattern is the external facade: it wires the tokenizer,
// clusterer, synthesizer, merger, cache, streaming engine and drift
// detector together behind the small surface collaborators (the CLI,
// config loading, sinks) are expected to call.
package logpattern

import (
	"context"

	"github.com/cc-tundra/logpattern/pkg/logpattern/drift"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/stream"
)

// Options bundles every option recognized by the external interfaces:
// threshold (clustering similarity cutoff), sample_size (learning line
// cap), use_mmap / detect_types (reader and parser behavior), and
// window_size / change_threshold (drift detector behavior).
type Options struct {
	Threshold       float64
	SampleSize      int
	UseMmap         bool
	DetectTypes     bool
	WindowSize      int
	ChangeThreshold float64
	NumWorkers      int
	ChunkSize       int
}

// DefaultOptions mirrors the documented option defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.7,
		UseMmap:         true,
		DetectTypes:     true,
		WindowSize:      100,
		ChangeThreshold: 0.5,
		NumWorkers:      1,
		ChunkSize:       1000,
	}
}

// LearnPatterns reads path and learns a PatternSet from it.
func LearnPatterns(path string, opts Options) (*pattern.Set, error) {
	return stream.LearnPatterns(path, stream.LearnOptions{
		Threshold:  opts.Threshold,
		SampleSize: opts.SampleSize,
		UseMmap:    opts.UseMmap,
	})
}

// ParallelLearn learns a PatternSet using a fixed pool of independent
// workers over disjoint chunks of path.
func ParallelLearn(ctx context.Context, path string, opts Options) (*pattern.Set, error) {
	return stream.ParallelLearn(ctx, path, opts.SampleSize, opts.NumWorkers, opts.ChunkSize)
}

// ParseLogs and StreamParse are the same operation: parse path against
// patterns and return one Record per non-empty source line, in order.
// Both names are kept because collaborators refer to the operation by
// either name.
func ParseLogs(ctx context.Context, path string, patterns *pattern.Set, opts Options) ([]stream.Record, error) {
	return stream.ParseAll(ctx, path, patterns, stream.ParseOptions{
		UseMmap:     opts.UseMmap,
		DetectTypes: opts.DetectTypes,
	})
}

func StreamParse(ctx context.Context, path string, patterns *pattern.Set, opts Options) (<-chan stream.Record, error) {
	return stream.StreamParse(ctx, path, patterns, stream.ParseOptions{
		UseMmap:     opts.UseMmap,
		DetectTypes: opts.DetectTypes,
	})
}

// DetectDrift partitions path into windows and reports dominant-pattern
// changes across them.
func DetectDrift(ctx context.Context, path string, patterns *pattern.Set, opts Options) (*drift.Report, error) {
	return drift.NewDetector(opts.WindowSize, opts.ChangeThreshold).DetectDrift(ctx, path, patterns)
}
