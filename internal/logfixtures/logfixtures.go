// Package logfixtures generates small, deterministic log lines in a handful
// of common real-world shapes, for use by package tests that need sample
// input without committing fixture files.
package logfixtures

import "fmt"

// ApacheCLF returns an Apache Common Log Format line for the given index,
// cycling through a few status codes and paths deterministically.
func ApacheCLF(i int) string {
	paths := []string{"/index.html", "/api/users", "/favicon.ico", "/api/orders/42"}
	statuses := []int{200, 200, 404, 500}
	sizes := []int{512, 1024, 0, 2048}
	n := i % len(paths)
	return fmt.Sprintf(
		`127.0.0.%d - - [15/Jan/2024:10:%02d:%02d +0000] "GET %s HTTP/1.1" %d %d`,
		(i%254)+1, i%60, (i*7)%60, paths[n], statuses[n], sizes[n],
	)
}

// Syslog returns a syslog-style line for the given index.
func Syslog(i int) string {
	levels := []string{"INFO", "WARN", "ERROR", "DEBUG"}
	procs := []string{"sshd", "systemd", "cron", "kernel"}
	n := i % len(levels)
	return fmt.Sprintf("Jan 15 10:%02d:%02d host %s[%d]: %s message %d", i%60, (i*3)%60, procs[i%len(procs)], 1000+i, levels[n], i)
}

// JSONish returns a line that looks like structured app output but is not
// valid JSON on its own (key=value pairs), the shape the tokenizer and
// naming heuristics are meant to handle without a JSON parser.
func JSONish(i int) string {
	return fmt.Sprintf("level=info msg=\"request handled\" status=%d duration=%dms request_id=%08x-aaaa-bbbb-cccc-%012x",
		200+(i%3)*100, i*5, i, i)
}

// GCStats returns a line in the shape of a garbage-collector stats log,
// exercising NUMBER/FLOAT-heavy lines with little literal structure.
func GCStats(i int) string {
	return fmt.Sprintf("gc %d: pause=%.3fms heap=%dMB alloc=%dMB goroutines=%d", i, float64(i%50)/10.0, 128+i, 64+i/2, 10+i%20)
}

// Lines builds n lines by repeatedly calling gen(i) for i in [0, n).
func Lines(n int, gen func(int) string) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = gen(i)
	}
	return out
}
