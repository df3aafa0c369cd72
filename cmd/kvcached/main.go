// Command kvcached serves a cache-aside key-value API over HTTP.
//
// Flags default to environment variables so the same binary runs from a
// shell or a container: SRV_HOST, SRV_PORT, CACHE_CAP, CACHE_SHARDS, STORE,
// DDB_TABLE, DDB_REGION, DDB_ENDPOINT, LOG_LEVEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/IvanBrykalov/kvcache/cacheaside"
	"github.com/IvanBrykalov/kvcache/metrics/prom"
	"github.com/IvanBrykalov/kvcache/server"
	"github.com/IvanBrykalov/kvcache/store/dynamo"
	"github.com/IvanBrykalov/kvcache/store/memstore"
)

func main() {
	var (
		host     = flag.String("host", env("SRV_HOST", "0.0.0.0"), "listen host")
		port     = flag.Int("port", envInt("SRV_PORT", 8080), "listen port")
		capacity = flag.Int("cap", envInt("CACHE_CAP", 1000), "cache capacity (entries)")
		shards   = flag.Int("shards", envInt("CACHE_SHARDS", 0), "number of shards (0=auto)")
		backend  = flag.String("store", env("STORE", "memory"), "backing store: memory | dynamodb")
		guard    = flag.Bool("guard", false, "skip cache populates that raced with a write/delete")
		coalesce = flag.Bool("coalesce", false, "share one store read among concurrent misses")

		table    = flag.String("ddb-table", env("DDB_TABLE", "kvcache"), "DynamoDB table")
		region   = flag.String("ddb-region", env("DDB_REGION", ""), "DynamoDB region (empty = AWS default chain)")
		endpoint = flag.String("ddb-endpoint", env("DDB_ENDPOINT", ""), "DynamoDB endpoint override, e.g. DynamoDB Local")

		logLevel = flag.String("log-level", env("LOG_LEVEL", "info"), "debug | info | warn | error")
	)
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	if *capacity <= 0 {
		logger.Error("cache capacity must be positive", "cap", *capacity)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, *backend, *table, *region, *endpoint)
	if err != nil {
		logger.Error("open store", "store", *backend, "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := prom.New(reg, "kvcache", "server", nil)

	co := cacheaside.New[string, string](store, cacheaside.Options[string, string]{
		Capacity:      *capacity,
		Shards:        *shards,
		CacheMetrics:  metrics,
		Metrics:       metrics,
		GuardPopulate: *guard,
		CoalesceReads: *coalesce,
		Logger:        logger,
	})
	metrics.ObserveSize(func() int { return co.Stats().CacheSize })

	srv := &http.Server{
		Addr:              net.JoinHostPort(*host, strconv.Itoa(*port)),
		Handler:           server.New(co, server.Options{Gatherer: reg, Logger: logger}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("kvcached listening",
			"addr", srv.Addr,
			"store", *backend,
			"cache_cap", *capacity,
			"shards", *shards,
			"guard", *guard,
			"coalesce", *coalesce,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
}

func openStore(ctx context.Context, backend, table, region, endpoint string) (cacheaside.Store[string, string], error) {
	switch backend {
	case "memory":
		return memstore.New[string, string](), nil
	case "dynamodb":
		var opts []dynamo.Option
		if region != "" {
			opts = append(opts, dynamo.WithRegion(region))
		}
		if endpoint != "" {
			opts = append(opts, dynamo.WithEndpoint(endpoint))
		}
		s, err := dynamo.New(ctx, table, opts...)
		if err != nil {
			return nil, err
		}
		if err := s.CreateTable(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store %q (use memory or dynamodb)", backend)
	}
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
