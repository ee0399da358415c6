// Package stream implements the line reader, the streaming parse engine and
// the parallel learner.
package stream

import (
	"bufio"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
)

// ReadLines returns every line of path (trailing newline stripped), UTF-8
// decoded with invalid bytes replaced rather than aborting. When useMmap is
// true the file is memory-mapped; any failure to map (e.g. an empty file,
// or an unsupported filesystem) falls back to buffered reads with identical
// semantics.
func ReadLines(path string, useMmap bool) ([]string, error) {
	if useMmap {
		if lines, ok := readLinesMmap(path); ok {
			return lines, nil
		}
	}
	return readLinesBuffered(path)
}

func readLinesMmap(path string) ([]string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return nil, false
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, false
	}
	defer m.Unmap()

	content := toValidUTF8(string(m))
	return splitLines(content), true
}

func readLinesBuffered(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, toValidUTF8(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
