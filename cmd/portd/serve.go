package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/kit/log"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Qalifah/harbor/config"
	"github.com/Qalifah/harbor/event"
	"github.com/Qalifah/harbor/harbor"
	"github.com/Qalifah/harbor/inmem"
	"github.com/Qalifah/harbor/port"
)

func newServeCommand() *cobra.Command {
	var (
		configPath string
		flags      = config.Default()
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the harbor HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			f := cmd.Flags()
			if f.Changed("http.addr") {
				cfg.HTTPAddr = flags.HTTPAddr
			}
			if f.Changed("data.dir") {
				cfg.DataDir = flags.DataDir
			}
			if f.Changed("log.format") {
				cfg.LogFormat = flags.LogFormat
			}
			if f.Changed("zipkin.url") {
				cfg.ZipkinURL = flags.ZipkinURL
			}
			if f.Changed("seed") {
				cfg.Seed = flags.Seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML or JSON config file")
	cmd.Flags().StringVar(&flags.HTTPAddr, "http.addr", flags.HTTPAddr, "HTTP listen address")
	cmd.Flags().StringVar(&flags.DataDir, "data.dir", flags.DataDir, "Directory for port snapshots")
	cmd.Flags().StringVar(&flags.LogFormat, "log.format", flags.LogFormat, "Log format (logfmt or json)")
	cmd.Flags().StringVar(&flags.ZipkinURL, "zipkin.url", "", "Zipkin collector URL, tracing is off when empty")
	cmd.Flags().BoolVar(&flags.Seed, "seed", false, "Register the sample ports on startup")
	return cmd
}

func newLogger(format string) log.Logger {
	var logger log.Logger
	if format == "json" {
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	} else {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func serve(cfg config.Config) error {
	logger := newLogger(cfg.LogFormat)

	var zipkinTracer *stdzipkin.Tracer
	if cfg.ZipkinURL != "" {
		reporter := zipkinhttp.NewReporter(cfg.ZipkinURL)
		defer reporter.Close()

		ep, err := stdzipkin.NewEndpoint("portd", cfg.HTTPAddr)
		if err != nil {
			return err
		}
		if zipkinTracer, err = stdzipkin.NewTracer(reporter, stdzipkin.WithLocalEndpoint(ep)); err != nil {
			return err
		}
		logger.Log("tracer", "zipkin", "url", cfg.ZipkinURL)
	}
	otTracer := stdopentracing.GlobalTracer()

	var (
		ports = inmem.NewPortRepository()
		ships = inmem.NewShipRepository()
	)
	if cfg.Seed {
		for _, p := range port.Samples() {
			if err := ports.Store(p); err != nil {
				return err
			}
		}
	}

	events := event.NewLogSink(log.With(logger, "component", "events"))

	fieldKeys := []string{"method"}

	var hs harbor.Service
	hs = harbor.NewService(ports, ships, events, cfg.DataDir)
	hs = harbor.NewLoggingService(log.With(logger, "component", "harbor"), hs)
	hs = harbor.NewInstrumentingService(
		kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "api",
			Subsystem: "harbor_service",
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, fieldKeys),
		kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: "api",
			Subsystem: "harbor_service",
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
		}, fieldKeys),
		kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "harbor",
			Name:      "events_total",
			Help:      "Load, unload, arrival and departure events by outcome.",
		}, []string{"type", "ok"}),
		hs,
	)

	duration := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "harbor",
		Subsystem: "endpoint",
		Name:      "request_duration_seconds",
		Help:      "Request duration in seconds.",
	}, []string{"method", "success"})

	set := harbor.NewSet(hs, logger, duration, otTracer, zipkinTracer, harbor.Limits{
		Rate:  rate.Limit(cfg.RateLimit),
		Burst: cfg.RateBurst,
	})

	httpLogger := log.With(logger, "component", "http")

	mux := http.NewServeMux()
	mux.Handle("/harbor/v1/", harbor.MakeHandler(set, httpLogger))
	mux.Handle("/metrics", promhttp.Handler())

	errs := make(chan error, 2)
	go func() {
		logger.Log("transport", "http", "address", cfg.HTTPAddr, "msg", "listening")
		errs <- http.ListenAndServe(cfg.HTTPAddr, mux)
	}()
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	logger.Log("terminated", <-errs)
	return nil
}
