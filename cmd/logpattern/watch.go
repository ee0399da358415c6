package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/cc-tundra/logpattern/internal/config"
	"github.com/cc-tundra/logpattern/pkg/logpattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/drift"
	"github.com/cc-tundra/logpattern/pkg/logpattern/metrics"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	cclog "github.com/cc-tundra/logpattern/pkg/log"
	"github.com/cc-tundra/logpattern/pkg/runtimeEnv"
)

// watchState holds what the scheduled scan job and the HTTP status surface
// both need, guarded by mu since gocron runs jobs on its own goroutine.
type watchState struct {
	mu       sync.Mutex
	patterns *pattern.Set
	report   *drift.Report
}

func (s *watchState) snapshot() (*pattern.Set, *drift.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patterns, s.report
}

func (s *watchState) update(ps *pattern.Set, report *drift.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = ps
	s.report = report
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	input := fs.String("input", "", "log file to watch (path or s3://bucket/key)")
	configPath := fs.String("config", "", "path to a logpattern config.json")
	addr := fs.String("addr", ":8080", "address the status HTTP server listens on")
	interval := fs.Duration("interval", time.Minute, "how often to relearn and re-check drift")
	user := fs.String("user", "", "drop privileges to this user after startup")
	group := fs.String("group", "", "drop privileges to this group after startup")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("watch: -input is required")
	}

	cfg := loadConfig(*configPath)
	collectors := metrics.New()
	state := &watchState{}
	limiter := rate.NewLimiter(rate.Every(*interval), 1)

	scan := func() {
		if !limiter.Allow() {
			cclog.InfoKV("watch: rescan throttled", "input", *input)
			return
		}

		opts := logpattern.DefaultOptions()
		opts.Threshold = cfg.Threshold
		opts.UseMmap = cfg.UseMmap
		opts.WindowSize = cfg.WindowSize
		opts.ChangeThreshold = cfg.ChangeThreshold

		ps, err := logpattern.LearnPatterns(*input, opts)
		if err != nil {
			cclog.WarnKV("watch: learn failed", "input", *input, "error", err)
			return
		}
		collectors.PatternsLearned.Set(float64(len(ps.Patterns)))

		report, err := logpattern.DetectDrift(ctx, *input, ps, opts)
		if err != nil {
			cclog.WarnKV("watch: drift detection failed", "input", *input, "error", err)
			return
		}

		if cfg.NATS.URL != "" {
			pub, err := drift.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject)
			if err != nil {
				cclog.WarnKV("watch: nats publish setup failed", "error", err)
			} else if err := drift.PublishAll(pub, report); err != nil {
				cclog.WarnKV("watch: nats publish failed", "error", err)
			} else {
				pub.Close()
			}
		}

		state.update(ps, report)
		cclog.InfoKV("watch: rescan complete", "input", *input, "patterns", len(ps.Patterns), "format_changes", len(report.FormatChanges))
	}

	scan()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("watch: create scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(gocron.DurationJob(*interval), gocron.NewTask(scan)); err != nil {
		return fmt.Errorf("watch: register scan job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	if *user != "" || *group != "" {
		if err := runtimeEnv.DropPrivileges(*user, *group); err != nil {
			return fmt.Errorf("watch: drop privileges: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      watchHandler(state, collectors),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		cclog.InfoKV("watch: status server listening", "addr", *addr)
		runtimeEnv.SystemdNotify(true, "watching "+*input)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cclog.WarnKV("watch: http server stopped", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	runtimeEnv.SystemdNotify(false, "stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func watchHandler(state *watchState, collectors *metrics.Collectors) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/drift", func(w http.ResponseWriter, req *http.Request) {
		_, report := state.snapshot()
		w.Header().Set("Content-Type", "application/json")
		if report == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "no scan completed yet"})
			return
		}
		json.NewEncoder(w).Encode(report)
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ps, _ := state.snapshot()
		if ps == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Handle("/metrics", collectors.Handler())

	r.Use(handlers.CompressHandler)
	return handlers.CustomLoggingHandler(cclog.InfoWriter, r, func(w io.Writer, params handlers.LogFormatterParams) {
		cclog.Finfof(w, "%s %s (Response: %d, Size: %d)", params.Request.Method, params.URL.RequestURI(), params.StatusCode, params.Size)
	})
}
