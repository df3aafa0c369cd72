// Command loadgen drives a workload against kvcached over HTTP, or against
// an in-process coordinator when -addr is empty, and reports throughput.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/IvanBrykalov/kvcache/cacheaside"
	"github.com/IvanBrykalov/kvcache/store/memstore"
)

type config struct {
	addr     string
	workload string
	workers  int
	duration time.Duration
	keyspace int
	hot      int
	zipfS    float64
	qps      float64
	seed     int64

	// in-process mode only
	capacity int
	shards   int
	preload  int
}

type result struct {
	ok, fail uint64
	elapsed  time.Duration
	latency  time.Duration // summed over successful ops
	stats    *cacheaside.Stats
}

func main() {
	var cfg config
	flag.StringVar(&cfg.addr, "addr", "http://127.0.0.1:8080", "kvcached base URL; empty = in-process")
	flag.StringVar(&cfg.workload, "workload", "get_popular", "get_all | put_all | get_popular | mixed")
	flag.IntVar(&cfg.workers, "workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
	flag.DurationVar(&cfg.duration, "duration", 30*time.Second, "run duration")
	flag.IntVar(&cfg.keyspace, "keyspace", 100_000, "distinct keys for get_all/put_all/mixed")
	flag.IntVar(&cfg.hot, "hot", 128, "distinct keys for get_popular")
	flag.Float64Var(&cfg.zipfS, "zipf_s", 0, "Zipf skew s > 1 for key choice (0 = uniform)")
	flag.Float64Var(&cfg.qps, "qps", 0, "global request rate limit (0 = unlimited)")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&cfg.capacity, "cap", 100_000, "in-process cache capacity")
	flag.IntVar(&cfg.shards, "shards", 0, "in-process shard count (0=auto)")
	flag.IntVar(&cfg.preload, "preload", 0, "in-process: keys written before the run")
	pprofAddr := flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof listening", "addr", *pprofAddr)
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				logger.Error("pprof", "error", err)
			}
		}()
	}

	logger.Info("running workload", "workload", cfg.workload, "workers", cfg.workers, "target", targetName(cfg))
	res, err := run(context.Background(), cfg)
	if err != nil {
		logger.Error("loadgen", "error", err)
		os.Exit(1)
	}
	report(os.Stdout, res)
}

func targetName(cfg config) string {
	if cfg.addr == "" {
		return "in-process"
	}
	return cfg.addr
}

func run(ctx context.Context, cfg config) (result, error) {
	if cfg.workers <= 0 {
		cfg.workers = 1
	}
	// Validate early so a typo fails before any traffic.
	if _, err := newWorkload(cfg.workload, cfg.seed, cfg.keyspace, cfg.hot, cfg.zipfS); err != nil {
		return result{}, err
	}

	var (
		tgt target
		co  *cacheaside.Coordinator[string, string]
	)
	if cfg.addr == "" {
		co = cacheaside.New[string, string](memstore.New[string, string](), cacheaside.Options[string, string]{
			Capacity: cfg.capacity,
			Shards:   cfg.shards,
		})
		if err := preload(ctx, co, cfg); err != nil {
			return result{}, err
		}
		tgt = localTarget{co: co}
	} else {
		tgt = newHTTPTarget(cfg.addr)
	}

	var limiter *rate.Limiter
	if cfg.qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.qps), cfg.workers)
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	var ok, fail, micros atomic.Uint64
	start := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < cfg.workers; w++ {
		wl, _ := newWorkload(cfg.workload, cfg.seed+int64(w)*9973, cfg.keyspace, cfg.hot, cfg.zipfS)
		g.Go(func() error {
			for gctx.Err() == nil {
				if limiter != nil {
					if err := limiter.Wait(gctx); err != nil {
						return nil // deadline reached while waiting
					}
				}
				op, key, value := wl.next()
				t0 := time.Now()
				err := tgt.do(gctx, op, key, value)
				if err != nil {
					// Requests cut off by the end of the run are not failures.
					if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
						return nil
					}
					fail.Add(1)
					continue
				}
				ok.Add(1)
				micros.Add(uint64(time.Since(t0).Microseconds()))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result{}, err
	}

	res := result{
		ok:      ok.Load(),
		fail:    fail.Load(),
		elapsed: time.Since(start),
		latency: time.Duration(micros.Load()) * time.Microsecond,
	}
	if co != nil {
		st := co.Stats()
		res.stats = &st
	}
	return res, nil
}

// preload seeds the store with the first cfg.preload keys of both key
// families, so get_popular finds its hot keys as well.
func preload(ctx context.Context, co *cacheaside.Coordinator[string, string], cfg config) error {
	for i := 0; i < cfg.preload; i++ {
		if cfg.keyspace > 0 {
			if err := co.Write(ctx, "k_"+strconv.Itoa(i%cfg.keyspace), "v"); err != nil {
				return err
			}
		}
		if i < cfg.hot {
			if err := co.Write(ctx, "hot_"+strconv.Itoa(i), "v"); err != nil {
				return err
			}
		}
	}
	return nil
}

func report(w io.Writer, r result) {
	throughput := float64(r.ok) / r.elapsed.Seconds()
	avg := time.Duration(0)
	if r.ok > 0 {
		avg = r.latency / time.Duration(r.ok)
	}
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Throughput: %.0f req/s\n", throughput)
	fmt.Fprintf(w, "Avg latency (successful ops): %v\n", avg)
	fmt.Fprintf(w, "Success: %d | Fail: %d\n", r.ok, r.fail)
	if r.stats != nil {
		st := r.stats
		hitRate := 0.0
		if total := st.Hits + st.Misses; total > 0 {
			hitRate = float64(st.Hits) / float64(total) * 100
		}
		fmt.Fprintf(w, "Cache: size=%d hits=%d misses=%d evictions=%d hit-rate=%.2f%%\n",
			st.CacheSize, st.Hits, st.Misses, st.Evictions, hitRate)
	}
	fmt.Fprintln(w, "----------------------------------------")
}
