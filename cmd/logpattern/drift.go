package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/cc-tundra/logpattern/pkg/logpattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/drift"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
)

func runDrift(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("drift", flag.ExitOnError)
	input := fs.String("input", "", "log file to check for drift (path or s3://bucket/key)")
	patternsPath := fs.String("patterns", "", "path to a previously saved pattern set")
	configPath := fs.String("config", "", "path to a logpattern config.json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *patternsPath == "" {
		return fmt.Errorf("drift: -input and -patterns are required")
	}

	cfg := loadConfig(*configPath)
	ps, err := pattern.Load(*patternsPath)
	if err != nil {
		return err
	}

	opts := logpattern.DefaultOptions()
	opts.WindowSize = cfg.WindowSize
	opts.ChangeThreshold = cfg.ChangeThreshold

	report, err := logpattern.DetectDrift(ctx, *input, ps, opts)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	for _, fc := range report.FormatChanges {
		fmt.Printf("  line %d: %s -> %s (confidence %.2f)\n", fc.Line, fc.FromPattern, fc.ToPattern, fc.Confidence)
	}

	if cfg.NATS.URL != "" {
		pub, err := drift.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer pub.Close()
		if err := drift.PublishAll(pub, report); err != nil {
			return err
		}
	}

	return nil
}
