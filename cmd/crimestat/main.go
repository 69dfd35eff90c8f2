package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/crimestat/internal/api"
	"github.com/ougirez/crimestat/internal/pkg/config"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/ougirez/crimestat/internal/pkg/logger"
	"github.com/ougirez/crimestat/internal/pkg/opendata"
	"github.com/ougirez/crimestat/internal/pkg/store"
	"github.com/ougirez/crimestat/internal/pkg/store/xdb"
	"github.com/ougirez/crimestat/internal/pkg/tabular"
	"github.com/ougirez/crimestat/internal/service/ingest"
	"github.com/ougirez/crimestat/internal/service/report"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	cfg    *config.Config
	store  store.Store
	ingest *ingest.Service
	report *report.Service
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(os.Args[2:])
	case "sync":
		err = syncCmd(os.Args[2:])
	case "report":
		err = reportCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "crimestat:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: crimestat <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  serve                          run the HTTP API")
	fmt.Fprintln(os.Stderr, "  sync [cyber|voice|travel|all]  run one sync and print the result (default: all)")
	fmt.Fprintln(os.Stderr, "  report                         print the year-aligned report")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options:")
	fmt.Fprintln(os.Stderr, "  -config   path to the YAML config file (default: config.yaml)")
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	path := fs.String("config", "config.yaml", "path to the YAML config file")
	return fs, path
}

func setup(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err = logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return nil, fmt.Errorf("logger.Init: %w", err)
	}

	pool, err := xdb.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("xdb.Open: %w", err)
	}
	st := store.NewStore(pool)
	if err = st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	regions := make([]tabular.Source, 0, len(cfg.Travel.Regions))
	for _, r := range cfg.Travel.Regions {
		regions = append(regions, tabular.Source{Region: r.Name, Path: r.Path, Encoding: r.Encoding})
	}

	fetcher := opendata.NewClient(opendata.ConfigFrom(cfg.OpenData))

	return &app{
		cfg:   cfg,
		store: st,
		ingest: ingest.NewIngestService(st, fetcher, ingest.Options{
			Regions:       regions,
			Watchlist:     cfg.Travel.Watchlist,
			FromYear:      cfg.Report.FromYear,
			ToYear:        cfg.Report.ToYear,
			Retries:       cfg.Sync.Retries,
			RetryInterval: cfg.Sync.RetryInterval,
		}),
		report: report.NewReportService(st, report.Options{
			Watchlist:     cfg.Travel.Watchlist,
			FromYear:      cfg.Report.FromYear,
			ToYear:        cfg.Report.ToYear,
			CyberCategory: cfg.Report.CyberCategory,
		}),
	}, nil
}

func serve(args []string) error {
	fs, configPath := newFlagSet("serve")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.store.Close()

	svc, err := api.NewAPIService(a.cfg, a.ingest, a.report)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "listening on %s", a.cfg.Server.Addr)
		errCh <- svc.Serve(a.cfg.Server.Addr)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return svc.Shutdown(shutdownCtx)
}

func syncCmd(args []string) error {
	fs, configPath := newFlagSet("sync")
	_ = fs.Parse(args)

	feed := "all"
	if fs.NArg() > 0 {
		feed = fs.Arg(0)
	}

	ctx := context.Background()
	a, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.store.Close()

	var result any
	switch feed {
	case "cyber":
		result, err = a.ingest.SyncCyberScam(ctx)
	case "voice":
		result, err = a.ingest.SyncVoicePhishing(ctx)
	case "travel":
		result, err = a.ingest.SyncTravel(ctx)
	case "all":
		all := a.ingest.SyncAll(ctx)
		result = all
		if len(all.Errors) == 3 {
			err = errors.New("every feed failed")
		}
	default:
		return fmt.Errorf("unknown feed %q", feed)
	}
	if err != nil {
		return fmt.Errorf("sync %s: %w", feed, err)
	}

	logger.Infof(logger.WithFields(ctx, constants.LogFieldFeed, feed), "sync finished")
	return printJSON(result)
}

func reportCmd(args []string) error {
	fs, configPath := newFlagSet("report")
	_ = fs.Parse(args)

	ctx := context.Background()
	a, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.store.Close()

	data, err := a.report.BuildYearAlignedReport(ctx, a.report.DefaultYears())
	if err != nil {
		return err
	}

	return printJSON(data)
}

func printJSON(v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("sonic.MarshalIndent: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
