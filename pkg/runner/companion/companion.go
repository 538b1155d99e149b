// Package companion runs the wrist-side mirror: an HTTP bridge end for
// receiving snapshot replies and a terminal UI driving the sync client.
package companion

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/tally/pkg/channel/httpbridge"
	companionclient "tableflip.dev/tally/pkg/companion"
	"tableflip.dev/tally/pkg/tui/companionview"
)

// Companion connects to the phone process and runs the mirror UI.
type Companion struct {
	Listen string
	Phone  string
}

func (c *Companion) Do(ctx context.Context) error {
	if c.Phone == "" {
		return errors.New("can not start companion, no phone address")
	}
	if c.Listen == "" {
		c.Listen = ":7781"
	}

	bridge := httpbridge.New("companion", map[string]string{"phone": c.Phone})
	client := companionclient.New(bridge)
	client.Register()

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           bridge.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		p := tea.NewProgram(companionview.NewModel(client), tea.WithAltScreen())
		_, err := p.Run()
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	})

	return g.Wait()
}
