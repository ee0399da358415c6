package stream

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cc-tundra/logpattern/pkg/logpattern/clustering"
	"github.com/cc-tundra/logpattern/pkg/logpattern/merging"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/tokenizer"
)

// LearnOptions configures the sequential and parallel learners.
type LearnOptions struct {
	Threshold  float64 // Stage B similarity cutoff, default 0.7
	SampleSize int     // 0 means "all lines"
	UseMmap    bool
}

// DefaultLearnOptions mirrors the documented defaults.
func DefaultLearnOptions() LearnOptions {
	return LearnOptions{Threshold: 0.7, UseMmap: true}
}

// Learn runs the sequential learner (tokenize -> cluster -> synthesize ->
// merge) over an already-read slice of lines. Empty input yields an empty
// pattern set.
func Learn(lines []string, threshold float64) *pattern.Set {
	members := make([]clustering.Member, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		members = append(members, clustering.Member{Tokens: tokenizer.Tokenize(line), Raw: line})
	}
	if len(members) == 0 {
		return pattern.New()
	}

	clusters := clustering.ClusterByExactSignature(members)
	clusters = clustering.Refine(clusters, threshold)

	ps := pattern.New()
	for _, c := range clusters {
		if p := pattern.Synthesize(c); p != nil {
			ps.Add(p)
		}
	}
	return merging.MergePatternSet(ps)
}

// LearnPatterns reads path and runs the sequential learner over it,
// honoring SampleSize and UseMmap. path may be a local filesystem path or
// an "s3://bucket/key" URI.
func LearnPatterns(path string, opts LearnOptions) (*pattern.Set, error) {
	lines, err := ReadSource(context.Background(), path, opts.UseMmap)
	if err != nil {
		return nil, fmt.Errorf("logpattern: read %s: %w", path, err)
	}
	if opts.SampleSize > 0 && len(lines) > opts.SampleSize {
		lines = lines[:opts.SampleSize]
	}
	return Learn(lines, effectiveThreshold(opts.Threshold)), nil
}

func effectiveThreshold(t float64) float64 {
	if t <= 0 {
		return 0.7
	}
	return t
}

// ParallelLearn implements the parallel learner: below the fallback
// threshold (file size or worker count), it behaves identically to Learn.
// Otherwise the sample is split into numWorkers contiguous chunks, each
// learned independently and pure (workers share no mutable state), then
// reduced by a single deterministic merge_patterns pass on the invoking
// goroutine.
func ParallelLearn(ctx context.Context, path string, sampleSize, numWorkers, chunkSize int) (*pattern.Set, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}

	lines, err := ReadSource(ctx, path, true)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("logpattern: %w", err)
		}
		return nil, fmt.Errorf("logpattern: read %s: %w", path, err)
	}
	if sampleSize > 0 && len(lines) > sampleSize {
		lines = lines[:sampleSize]
	}

	if len(lines) == 0 {
		return pattern.New(), nil
	}

	if len(lines) <= chunkSize || numWorkers <= 1 {
		return Learn(lines, 0.7), nil
	}

	chunks := splitIntoChunks(lines, numWorkers)

	results := make([]*pattern.Set, len(chunks))
	var wg sync.WaitGroup
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()
			select {
			case <-cctx.Done():
				return
			default:
			}
			results[i] = Learn(chunk, 0.7)
		}(i, chunk)
	}
	wg.Wait()

	if cctx.Err() != nil {
		return nil, fmt.Errorf("logpattern: parallel learn cancelled: %w", cctx.Err())
	}

	union := pattern.New()
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, p := range r.Patterns {
			union.Add(p)
		}
	}
	return merging.MergePatternSet(union), nil
}

func splitIntoChunks(lines []string, numWorkers int) [][]string {
	chunks := make([][]string, 0, numWorkers)
	n := len(lines)
	size := n / numWorkers
	if size == 0 {
		size = 1
	}
	start := 0
	for start < n {
		end := start + size
		if end > n || len(chunks) == numWorkers-1 {
			end = n
		}
		chunks = append(chunks, lines[start:end])
		start = end
	}
	return chunks
}
