package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cc-tundra/logpattern/pkg/logpattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/sink"
)

func runParse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	input := fs.String("input", "", "log file to parse (path or s3://bucket/key)")
	patternsPath := fs.String("patterns", "", "path to a previously saved pattern set")
	configPath := fs.String("config", "", "path to a logpattern config.json")
	format := fs.String("format", "json", "output format: json or csv")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *patternsPath == "" {
		return fmt.Errorf("parse: -input and -patterns are required")
	}

	cfg := loadConfig(*configPath)
	ps, err := pattern.Load(*patternsPath)
	if err != nil {
		return err
	}

	opts := logpattern.DefaultOptions()
	opts.UseMmap = cfg.UseMmap
	opts.DetectTypes = cfg.DetectTypes

	records, err := logpattern.ParseLogs(ctx, *input, ps, opts)
	if err != nil {
		return err
	}

	switch *format {
	case "csv":
		return sink.WriteCSV(os.Stdout, records)
	default:
		return sink.WriteJSONLines(os.Stdout, records)
	}
}
