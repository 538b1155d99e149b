// Package serve runs the phone-side listener: it answers companion sync
// requests and follows out-of-band edits to the persisted state.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/tally/pkg/channel/httpbridge"
	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/syncd"
)

// Serve hosts the sync handler on an HTTP bridge until ctx is cancelled.
type Serve struct {
	Listen   string
	Peers    map[string]string
	Store    *store.Store
	Settings settings.Store
}

func (s *Serve) Do(ctx context.Context) error {
	if s.Store == nil {
		return errors.New("can not serve, no store")
	}
	if s.Listen == "" {
		s.Listen = ":7780"
	}

	bridge := httpbridge.New("phone", s.Peers)
	syncd.New(s.Store, bridge).Register()

	srv := &http.Server{
		Addr:              s.Listen,
		Handler:           bridge.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "serve: listening on %s\n", s.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if s.Settings != nil {
		g.Go(func() error {
			events, err := s.Settings.Watch(ctx)
			if err != nil {
				// Watching is best effort; the handler still serves the
				// in-memory state.
				fmt.Fprintf(os.Stderr, "serve: watch settings: %v\n", err)
				return nil
			}
			for range events {
				if err := s.Store.Reload(); err != nil {
					fmt.Fprintf(os.Stderr, "serve: reload state: %v\n", err)
				}
			}
			return nil
		})
	}

	return g.Wait()
}
