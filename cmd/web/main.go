// cmd/web/main.go
//
// Contact form relay – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (defaults → conf/.env → conf/global.yaml → env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Register form definitions from the forms directory.  The built-in
//     “contact” form is always present.
//
//  4. Build the relay: one resolved FormSpec per form, an instance LRU,
//     and the shared outbound transport.
//
//  5. Serve the relay router, which carries /metrics, /healthz, and the
//     /forms routes behind ForceHTTPS and security headers.
//
//  6. Run the server and the idle-instance evictor under one errgroup.
//     SIGINT or SIGTERM drains in-flight submissions, then exits.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/contactform/internal/config"
	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/logger"
	"github.com/yanizio/contactform/internal/requestinfo"
	"github.com/yanizio/contactform/internal/server"
)

const shutdownGrace = 15 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Form definitions ────────────────────────────────────────────
	//
	n, err := form.RegisterForms(cfg.Forms.Dir)
	if err != nil {
		logOut.Fatalw("load form definitions", "dir", cfg.Forms.Dir, "err", err)
	}
	logOut.Infow("form definitions loaded", "dir", cfg.Forms.Dir, "count", n, "forms", form.FormIDs())

	//
	// ── 2.  Relay ───────────────────────────────────────────────────────
	//
	visitors, err := requestinfo.New(cfg.HTTP.GeoIPDB)
	if err != nil {
		logOut.Fatalw("open GeoLite2 database", "file", cfg.HTTP.GeoIPDB, "err", err)
	}
	defer func() { _ = visitors.Close() }()

	relay, err := server.NewRelay(server.Settings{
		SubmitTimeout: cfg.Submit.Timeout,
		MaxInstances:  cfg.Instances.Max,
		InstanceTTL:   cfg.Instances.TTL,
		ForceHTTPS:    cfg.HTTP.ForceHTTPS,
		Blocks:        cfg.Forms.Blocks,
		Visitors:      visitors,
	}, logOut)
	if err != nil {
		logOut.Fatalw("build relay", "err", err)
	}

	srv := server.New(cfg.HTTP.ListenAddr, relay.Handler(), cfg.Submit.Timeout)

	//
	// ── 3.  Serve until signalled ───────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr, "force_https", cfg.HTTP.ForceHTTPS)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return relay.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logOut.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
}
