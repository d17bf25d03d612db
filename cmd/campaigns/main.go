// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains campaigns main function to start the campaigns service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/dairylink/outreach"
	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/campaigns/api"
	"github.com/dairylink/outreach/campaigns/events"
	"github.com/dairylink/outreach/campaigns/middleware"
	campaignspg "github.com/dairylink/outreach/campaigns/postgres"
	"github.com/dairylink/outreach/campaigns/smpp"
	olog "github.com/dairylink/outreach/logger"
	"github.com/dairylink/outreach/pkg/jaeger"
	pgclient "github.com/dairylink/outreach/pkg/postgres"
	"github.com/dairylink/outreach/pkg/prometheus"
	"github.com/dairylink/outreach/pkg/server"
	httpserver "github.com/dairylink/outreach/pkg/server/http"
	"github.com/dairylink/outreach/pkg/ticker"
	"github.com/dairylink/outreach/pkg/ulid"
	"github.com/dairylink/outreach/pkg/uuid"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/segments"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "campaigns"
	envPrefix      = "OR_CAMPAIGNS_"
	envPrefixDB    = "OR_CAMPAIGNS_DB_"
	envPrefixHTTP  = "OR_CAMPAIGNS_HTTP_"
	envPrefixSMPP  = "OR_SMPP_"
	defDB          = "campaigns"
	defSvcHTTPPort = "9030"
)

type config struct {
	LogLevel         string        `env:"OR_CAMPAIGNS_LOG_LEVEL"         envDefault:"info"`
	EnvFile          string        `env:"OR_CAMPAIGNS_ENV_FILE"          envDefault:".env"`
	InstanceID       string        `env:"OR_CAMPAIGNS_INSTANCE_ID"       envDefault:""`
	EncodingPolicy   string        `env:"OR_CAMPAIGNS_ENCODING_POLICY"   envDefault:"ascii"`
	Price            string        `env:"OR_CAMPAIGNS_PRICE"             envDefault:"0.25"`
	Currency         string        `env:"OR_CAMPAIGNS_CURRENCY"          envDefault:"ETB"`
	AutoRate         int           `env:"OR_CAMPAIGNS_AUTO_RATE"         envDefault:"100"`
	Workers          int           `env:"OR_CAMPAIGNS_WORKERS"           envDefault:"10"`
	Concurrent       int           `env:"OR_CAMPAIGNS_CONCURRENT"        envDefault:"4"`
	DispatchInterval time.Duration `env:"OR_CAMPAIGNS_DISPATCH_INTERVAL" envDefault:"30s"`
	ESURL            string        `env:"OR_ES_URL"                      envDefault:"nats://localhost:4222"`
	JaegerURL        url.URL       `env:"OR_JAEGER_URL"                  envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio       float64       `env:"OR_JAEGER_TRACE_RATIO"          envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if err := outreach.LoadEnvFile(os.Getenv("OR_CAMPAIGNS_ENV_FILE")); err != nil {
		log.Fatalf("failed to load %s env file : %s", svcName, err)
	}

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := olog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer olog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	svcConfig, err := serviceConfig(cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load %s service configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	dbConfig := pgclient.Config{Name: defDB}
	if err := env.Parse(&dbConfig, env.Options{Prefix: envPrefixDB}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s database configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	db, err := pgclient.Setup(dbConfig, *campaignspg.Migration())
	if err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	defer db.Close()

	smppConfig := smpp.Config{}
	if err := env.Parse(&smppConfig, env.Options{Prefix: envPrefixSMPP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load SMPP configuration : %s", err))
		exitCode = 1
		return
	}
	sender, transmitter := smpp.New(smppConfig, logger)
	defer transmitter.Close()

	tp, err := jaeger.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %v", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	svc, err := newService(ctx, db, dbConfig, sender, tracer, svcConfig, cfg, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		exitCode = 1
		return
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, svcName, cfg.InstanceID), logger)

	scheduler := campaigns.NewScheduler(svc, ticker.NewTicker(cfg.DispatchInterval), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return scheduler.Start(ctx)
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func serviceConfig(cfg config) (campaigns.Config, error) {
	policy, err := segments.ToPolicy(cfg.EncodingPolicy)
	if err != nil {
		return campaigns.Config{}, err
	}
	rate, err := pricing.NewRate(cfg.Price, cfg.Currency)
	if err != nil {
		return campaigns.Config{}, err
	}
	reviewer := campaigns.DefaultReviewer()
	if err := env.Parse(&reviewer, env.Options{Prefix: envPrefix}); err != nil {
		return campaigns.Config{}, err
	}

	return campaigns.Config{
		Policy:     policy.Or(segments.ASCII),
		Rate:       rate,
		Reviewer:   reviewer,
		Workers:    cfg.Workers,
		Concurrent: cfg.Concurrent,
		AutoRate:   cfg.AutoRate,
	}, nil
}

func newService(ctx context.Context, db *sqlx.DB, dbConfig pgclient.Config, sender campaigns.Sender, tracer trace.Tracer, svcConfig campaigns.Config, c config, logger *slog.Logger) (campaigns.Service, error) {
	database := pgclient.NewDatabase(db, dbConfig, tracer)
	repo := campaignspg.NewRepository(database)
	blacklist := campaignspg.NewBlacklistRepository(database)
	groups := campaignspg.NewGroupRepository(database)

	segmentsCounter, failuresCounter := prometheus.MakeDeliveryMetrics(svcName, "sender")
	sender = middleware.SenderMetrics(sender, segmentsCounter, failuresCounter)

	svc := campaigns.NewService(repo, blacklist, groups, sender, ulid.New(), svcConfig)
	svc, err := events.NewEventStoreMiddleware(ctx, svc, c.ESURL)
	if err != nil {
		return nil, err
	}
	svc = middleware.TracingMiddleware(svc, tracer)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.MetricsMiddleware(svc, counter, latency)
	svc = middleware.LoggingMiddleware(svc, logger)

	return svc, nil
}
