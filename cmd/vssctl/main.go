// Command vssctl is a thin CLI wrapper around the job orchestrator and
// report aggregator: submit a file, poll a job, or print a report tree
// as JSON. It does not attempt to be the REST layer the service
// surface is meant for -- just enough wiring to exercise the core
// from a terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eviepay/vss-settlement/config"
	"github.com/eviepay/vss-settlement/job"
	"github.com/eviepay/vss-settlement/logging"
	"github.com/eviepay/vss-settlement/metrics"
	"github.com/eviepay/vss-settlement/store"
	"github.com/eviepay/vss-settlement/store/memory"
	"github.com/eviepay/vss-settlement/store/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional; defaults to an in-memory store)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadOrDefaultConfig(*configPath)
	if err != nil {
		log.Fatalf("vssctl: %v", err)
	}

	logger := logging.NewComponentLogger("vssctl")
	m := metrics.New(cfg.Metrics)
	st, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("vssctl: %v", err)
	}
	defer closeStore()

	orch := job.New(st, cfg.Pipeline, m, logger)
	ctx := context.Background()

	switch args[0] {
	case "submit":
		runSubmit(ctx, orch, args[1:])
	case "status":
		runStatus(ctx, orch, args[1:])
	case "list":
		runList(ctx, orch, args[1:])
	case "retry":
		runRetry(ctx, orch, args[1:])
	case "cancel":
		runCancel(ctx, orch, args[1:])
	case "stats":
		runStats(ctx, orch)
	case "report":
		runReport(ctx, orch, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: vssctl [-config path] <command> [args]

commands:
  submit <file>                     submit an EPIN file and print the resulting job
  status <jobId>                    print a job's current status
  list <clientId>                   list jobs for a client
  retry <jobId> <file>              retry a failed job with new content
  cancel <jobId>                    cancel an active job
  stats                             print aggregate job statistics
  report <vss110|vss120|vss130|vss140>   print a report tree as JSON`)
}

func loadOrDefaultConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg := &config.AppConfig{}
		cfg.Pipeline.ApplyDefaults()
		cfg.Metrics.ApplyDefaults()
		cfg.Logging.ApplyDefaults()
		return cfg, nil
	}
	return config.LoadAppConfig(path)
}

func openStore(cfg *config.AppConfig) (store.Store, func(), error) {
	if cfg.Store.DSN == "" {
		return memory.New(), func() {}, nil
	}
	st, err := postgres.New(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("connect store: %w", err)
	}
	return st, func() { st.Close() }, nil
}

func runSubmit(ctx context.Context, orch *job.Orchestrator, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: vssctl submit <file>")
	}
	blob, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("read file: %v", err)
	}
	j, err := orch.Submit(ctx, args[0], blob, int64(len(blob)))
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	printJSON(j)
}

func runStatus(ctx context.Context, orch *job.Orchestrator, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: vssctl status <jobId>")
	}
	j, err := orch.Status(ctx, args[0])
	if err != nil {
		log.Fatalf("status: %v", err)
	}
	printJSON(j)
}

func runList(ctx context.Context, orch *job.Orchestrator, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: vssctl list <clientId>")
	}
	jobs, err := orch.ListByClient(ctx, args[0])
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	printJSON(jobs)
}

func runRetry(ctx context.Context, orch *job.Orchestrator, args []string) {
	if len(args) != 2 {
		log.Fatal("usage: vssctl retry <jobId> <file>")
	}
	blob, err := os.ReadFile(args[1])
	if err != nil {
		log.Fatalf("read file: %v", err)
	}
	j, err := orch.Retry(ctx, args[0], blob)
	if err != nil {
		log.Fatalf("retry: %v", err)
	}
	printJSON(j)
}

func runCancel(ctx context.Context, orch *job.Orchestrator, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: vssctl cancel <jobId>")
	}
	j, err := orch.Cancel(ctx, args[0])
	if err != nil {
		log.Fatalf("cancel: %v", err)
	}
	printJSON(j)
}

func runStats(ctx context.Context, orch *job.Orchestrator) {
	s, err := orch.Stats(ctx)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	printJSON(s)
}

func runReport(ctx context.Context, orch *job.Orchestrator, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	destPrefix := fs.String("dest", "", "destination id prefix filter")
	currency := fs.String("currency", "", "currency code filter")
	businessMode := fs.String("mode", "", "business mode filter")
	start := fs.String("start", "", "start date filter, RFC3339")
	end := fs.String("end", "", "end date filter, RFC3339")
	if len(args) < 1 {
		log.Fatal("usage: vssctl report <vss110|vss120|vss130|vss140> [-dest ...] [-currency ...] [-mode ...] [-start ...] [-end ...]")
	}
	fs.Parse(args[1:])

	f := store.Filter{DestinationIDPrefix: *destPrefix, CurrencyCode: *currency, BusinessMode: *businessMode}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			log.Fatalf("parse -start: %v", err)
		}
		f.StartDate = &t
	}
	if *end != "" {
		t, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			log.Fatalf("parse -end: %v", err)
		}
		f.EndDate = &t
	}

	var (
		result interface{}
		err    error
	)
	switch args[0] {
	case "vss110":
		result, err = orch.Vss110Stats(ctx, f)
	case "vss120":
		result, err = orch.Vss120Report(ctx, f)
	case "vss130":
		result, err = orch.Vss130Report(ctx, f)
	case "vss140":
		result, err = orch.Vss140Report(ctx, f)
	default:
		log.Fatalf("unknown report %q", args[0])
	}
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	printJSON(result)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
