// CumApp server entrypoint.
//
// Serves the whole product surface on one listener: the JSON API (auth,
// number marketplace, verifications, conversations, billing, search),
// the chart endpoints rendered from the JSONL event log, and the HTML
// dashboard at /.
//
// State is in-memory; the event log on disk is the only thing that
// survives a restart, and analytics replays it on demand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Infradevandops/cumapp/src/api"
	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/notify"
	"github.com/Infradevandops/cumapp/src/store"
	"github.com/Infradevandops/cumapp/src/types"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	catalogPath := flag.String("catalog", "", "Path to number/plan catalog JSONC file (empty = built-in catalog)")
	eventsFile := flag.String("events", types.DefaultEventsFile, "JSONL event log path (empty disables persistence)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	geoip := flag.Bool("geoip", true, "Enrich login records with GeoLite2 country when a local mmdb is installed")
	verifyTTL := flag.Duration("verify-ttl", 10*time.Minute, "Verification code time to live")
	maxAttempts := flag.Int("verify-attempts", 3, "Max code attempts per verification")
	historyCap := flag.Int("notify-history", 100, "Recent notifications retained for /api/notifications")
	shutdownGrace := flag.Duration("shutdown-grace", 10*time.Second, "Max time to drain connections on shutdown")
	flag.Parse()

	logging.SetLevel(*logLevel)

	st, err := store.Open(store.Config{
		EventsFile:  *eventsFile,
		CatalogFile: *catalogPath,
		VerifyTTL:   *verifyTTL,
		MaxAttempts: *maxAttempts,
		GeoIP:       *geoip,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	bus := notify.NewBus(*historyCap)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.New(st, bus),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("listening on %s (events=%s)", *addr, *eventsFile)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Infof("shutdown signal received, draining for up to %s", *shutdownGrace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Errorf("shutdown: %v", err)
		}
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
	}
}
