package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/cc-tundra/logpattern/pkg/logpattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/stream"
)

func runLearn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("learn", flag.ExitOnError)
	input := fs.String("input", "", "log file to learn from (path or s3://bucket/key)")
	output := fs.String("output", "", "path to save the learned pattern set (Avro-encoded)")
	configPath := fs.String("config", "", "path to a logpattern config.json")
	parallel := fs.Bool("parallel", false, "use the parallel learner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("learn: -input is required")
	}

	cfg := loadConfig(*configPath)
	opts := logpattern.DefaultOptions()
	opts.Threshold = cfg.Threshold
	opts.UseMmap = cfg.UseMmap
	opts.SampleSize = cfg.SampleSize
	opts.NumWorkers = cfg.NumWorkers
	opts.ChunkSize = cfg.ChunkSize

	var ps *pattern.Set
	var err error
	if *parallel {
		ps, err = logpattern.ParallelLearn(ctx, *input, opts)
	} else {
		ps, err = stream.LearnPatterns(*input, stream.LearnOptions{
			Threshold:  opts.Threshold,
			SampleSize: opts.SampleSize,
			UseMmap:    opts.UseMmap,
		})
	}
	if err != nil {
		return err
	}

	fmt.Printf("learned %d pattern(s) from %s\n", len(ps.Patterns), *input)

	if *output != "" {
		if err := ps.Save(*output); err != nil {
			return err
		}
		fmt.Printf("saved pattern set to %s\n", *output)
	}
	return nil
}
