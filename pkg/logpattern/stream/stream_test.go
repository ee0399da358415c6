package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStreamParseBasic(t *testing.T) {
	path := writeTemp(t, "2024-01-15 INFO message one\n2024-01-15 INFO message two\n")
	patterns, err := LearnPatterns(path, DefaultLearnOptions())
	require.NoError(t, err)

	records, err := ParseAll(context.Background(), path, patterns, DefaultParseOptions())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].LineNumber)
	assert.Equal(t, 2, records[1].LineNumber)
}

func TestStreamParseWithCallback(t *testing.T) {
	path := writeTemp(t, "2024-01-15 INFO message\n")
	patterns, err := LearnPatterns(path, DefaultLearnOptions())
	require.NoError(t, err)

	count := 0
	opts := DefaultParseOptions()
	opts.Callback = func(Record) { count++ }

	_, err = ParseAll(context.Background(), path, patterns, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStreamParseEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	records, err := ParseAll(context.Background(), path, pattern.New(), DefaultParseOptions())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStreamParseSkipsEmptyLines(t *testing.T) {
	path := writeTemp(t, "line1\n\nline2\n\n\nline3\n")
	patterns, err := LearnPatterns(path, DefaultLearnOptions())
	require.NoError(t, err)

	records, err := ParseAll(context.Background(), path, patterns, DefaultParseOptions())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestParallelLearnSmallFile(t *testing.T) {
	content := ""
	for i := 0; i < 100; i++ {
		content += "2024-01-15 INFO message\n"
	}
	path := writeTemp(t, content)

	patterns, err := ParallelLearn(context.Background(), path, 0, 2, 50)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(patterns.Patterns), 1)
}

func TestParallelLearnMultiplePatterns(t *testing.T) {
	content := ""
	for i := 0; i < 50; i++ {
		content += "2024-01-15 INFO message\n"
	}
	for i := 0; i < 50; i++ {
		content += "ERROR: failure\n"
	}
	path := writeTemp(t, content)

	patterns, err := ParallelLearn(context.Background(), path, 0, 2, 30)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(patterns.Patterns), 1)
}

func TestParallelLearnEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	patterns, err := ParallelLearn(context.Background(), path, 0, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, len(patterns.Patterns))
}
