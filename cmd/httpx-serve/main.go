package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"dqx0.com/go/tinyhttp/httpx"
	"dqx0.com/go/tinyhttp/internal/obs"
	"dqx0.com/go/tinyhttp/internal/site"
)

func main() {
	var (
		addr           = flag.String("addr", "127.0.0.1:8080", "listen address")
		root           = flag.String("root", ".", "directory to serve")
		maxConns       = flag.Int("max-conns", 0, "max concurrently served connections (0 = unbounded)")
		maxHeaderBytes = flag.Int("max-header-bytes", 8<<10, "request head size limit")
		maxDumpBytes   = flag.Uint64("max-dump-bytes", site.DefaultMaxDumpBytes, "largest body echoed by POST")
		readTimeout    = flag.Duration("read-timeout", 10*time.Second, "per-connection read deadline (0 = none)")
		writeTimeout   = flag.Duration("write-timeout", 10*time.Second, "per-connection write deadline (0 = none)")
		logFormat      = flag.String("log-format", "text", "log format: text, json or std")
		logLevel       = flag.String("log-level", "info", "minimum level: debug, info, warn, error")
	)
	flag.Parse()

	lvl, err := obs.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	lg, err := newLogger(*logFormat, lvl)
	if err != nil {
		log.Fatal(err)
	}

	h, err := site.New(*root, *maxDumpBytes, lg)
	if err != nil {
		log.Fatal(err)
	}
	reg := obs.NewRegistry()
	srv := &httpx.Server{
		Addr:           *addr,
		Handler:        h,
		Logger:         lg,
		Meter:          reg,
		MaxConns:       *maxConns,
		MaxHeaderBytes: *maxHeaderBytes,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe() }()
	lg.Log(obs.Info, "serving", "root", h.Root())

	select {
	case err := <-served:
		log.Fatal(err)
	case <-ctx.Done():
	}
	lg.Log(obs.Info, "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		lg.Log(obs.Warn, "shutdown", "err", err)
	}
	if err := <-served; err != nil && !errors.Is(err, httpx.ErrServerClosed) {
		lg.Log(obs.Error, "serve", "err", err)
	}

	counters := reg.Counters()
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lg.Log(obs.Info, "metric", "series", k, "value", counters[k])
	}
}

func newLogger(format string, lvl obs.Level) (obs.Logger, error) {
	opts := &slog.HandlerOptions{Level: obs.SlogLevel(lvl)}
	switch format {
	case "text":
		return obs.SlogLogger{L: slog.New(slog.NewTextHandler(os.Stderr, opts))}, nil
	case "json":
		return obs.SlogLogger{L: slog.New(slog.NewJSONHandler(os.Stderr, opts))}, nil
	case "std":
		return obs.StdLogger{L: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds), Min: lvl}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
