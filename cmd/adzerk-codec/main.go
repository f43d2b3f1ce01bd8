package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/patrickwarner/adzerk-sdk/internal/codec"
	"github.com/patrickwarner/adzerk-sdk/internal/config"
	"github.com/patrickwarner/adzerk-sdk/internal/db"
	"github.com/patrickwarner/adzerk-sdk/internal/logic"
	"github.com/patrickwarner/adzerk-sdk/internal/models"
	"github.com/patrickwarner/adzerk-sdk/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const usage = `usage: adzerk-codec <command> [flags]

commands:
  encode   build a decision request and print its JSON body
  decode   parse a decision response and print a summary
`

// app carries what every subcommand needs.
type app struct {
	cfg     config.Config
	codec   *codec.Codec
	logger  *zap.Logger
	metrics observability.MetricsRegistry
	stdin   io.Reader
	stdout  io.Writer
}

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.TempoEndpoint,
			SampleRate:  cfg.TracingSampleRate,
		})
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	metrics := observability.NewPrometheusRegistry()
	c, err := codec.New(codec.Options{
		NetworkID: cfg.NetworkID,
		SiteID:    cfg.SiteID,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Fatal("init codec", zap.Error(err))
	}

	a := &app{
		cfg:     cfg,
		codec:   c,
		logger:  logger,
		metrics: metrics,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
	if err := a.run(observability.WithLogger(ctx, logger), os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "encode":
		return a.encode(ctx, args)
	case "decode":
		return a.decode(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) encode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	div := fs.String("div", "div1", "placement div name")
	network := fs.Int64("network", a.cfg.NetworkID, "network id")
	site := fs.Int64("site", a.cfg.SiteID, "site id")
	adTypes := fs.String("adtypes", "", "comma separated ad type ids")
	zones := fs.String("zones", "", "comma separated zone ids")
	count := fs.Int("count", 0, "number of winners to request")
	keywords := fs.String("keywords", "", "comma separated keywords")
	user := fs.String("user", "", "user key")
	anon := fs.Bool("anon", false, "generate a random user key when -user is empty")
	history := fs.Bool("history", false, "attach the user's stored flight views")
	var opts optionFlag
	fs.Var(&opts, "opt", "additional top-level field as key=json (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	types, err := parseIntList(*adTypes)
	if err != nil {
		return fmt.Errorf("adtypes: %w", err)
	}
	zoneIDs, err := parseIntList(*zones)
	if err != nil {
		return fmt.Errorf("zones: %w", err)
	}

	p, err := models.NewPlacement(*div, *network, *site, types...)
	if err != nil {
		return err
	}
	p.SetZoneIDs(zoneIDs...).SetCount(*count)

	b := models.NewRequestBuilder().AddPlacement(p)
	if kw := splitList(*keywords); len(kw) > 0 {
		b.SetKeywords(kw...)
	}
	if *user == "" && *anon {
		*user = uuid.NewString()
		a.logger.Debug("generated user key", zap.String("user_key", *user))
	}
	if *user != "" {
		b.SetUserKey(*user)
	}
	for i, key := range opts.keys {
		b.AddAdditionalOption(key, opts.values[i])
	}

	if *history {
		store, err := db.InitRedis(ctx, a.cfg.RedisAddr, a.cfg.ViewHistoryWindow, a.cfg.ViewHistoryMax)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer store.Close()
		if _, err := logic.ApplyViewHistory(ctx, store, a.metrics, *user, b, time.Now()); err != nil {
			return fmt.Errorf("view history: %w", err)
		}
	}

	req, err := b.Build()
	if err != nil {
		return err
	}
	body, err := a.codec.Encode(req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%s\n", body)
	return err
}

func (a *app) decode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	in := fs.String("in", "", "response file (default stdin)")
	record := fs.Bool("record", false, "record winning flights as viewed by the response user")
	user := fs.String("user", "", "user key to record views for (default the response user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if *in == "" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(*in)
	}
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	resp, err := a.codec.Decode(data)
	if err != nil {
		return err
	}

	if *record {
		key := *user
		if key == "" {
			key = resp.UserKey()
		}
		store, err := db.InitRedis(ctx, a.cfg.RedisAddr, a.cfg.ViewHistoryWindow, a.cfg.ViewHistoryMax)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer store.Close()
		n, err := logic.RecordImpressions(ctx, store, a.metrics, key, resp, time.Now())
		if err != nil {
			return fmt.Errorf("record views: %w", err)
		}
		a.logger.Info("recorded flight views", zap.String("user_key", key), zap.Int("flights", n))
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(resp))
}
