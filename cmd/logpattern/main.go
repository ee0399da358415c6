// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command logpattern is a thin CLI wrapper over the pkg/logpattern facade:
// it owns flag parsing, config loading and output formatting only, never
// clustering/merging/matching logic itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/gops/agent"

	"github.com/cc-tundra/logpattern/internal/config"
	cclog "github.com/cc-tundra/logpattern/pkg/log"
	"github.com/cc-tundra/logpattern/pkg/logpattern/stream"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: logpattern [-gops] <command> [flags]

Commands:
  learn   learn a pattern set from a log file and optionally save it
  parse   parse a log file against a learned pattern set
  drift   detect format drift across a log file's windows
  watch   run the scheduled learn/drift daemon

Run 'logpattern <command> -h' for flags specific to that command.
`)
}

func main() {
	var flagGops bool
	flag.BoolVar(&flagGops, "gops", false, "listen via github.com/google/gops/agent (for debugging)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cmd := args[0]
	args = args[1:]

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cclog.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	ctx := context.Background()

	var err error
	switch cmd {
	case "learn":
		err = runLearn(ctx, args)
	case "parse":
		err = runParse(ctx, args)
	case "drift":
		err = runDrift(ctx, args)
	case "watch":
		err = runWatch(ctx, args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "logpattern: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		cclog.Fatalf("logpattern %s: %v", cmd, err)
	}
}

// loadConfig is shared by every subcommand that accepts -config.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		cclog.Fatalf("logpattern: %v", err)
	}
	stream.SetS3Config(stream.S3Config{
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	return cfg
}
