package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmaps/pkg/devserver"
	"github.com/matzehuels/topicmaps/pkg/model"
)

const shutdownTimeout = 5 * time.Second

// devserverCommand creates the devserver command.
func (c *CLI) devserverCommand() *cobra.Command {
	var (
		addr string
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve an in-memory graph store for local testing",
		Long: `Serve an in-memory graph store for local testing.

The server speaks the same REST and push protocol the client uses. All data
is lost on exit. --seed fills the workspace given by --workspace (default 1)
with a small demo graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			srv := devserver.New(logger)
			if seed {
				ws := model.ID(c.workspace)
				if ws == model.NoID {
					ws = 1
				}
				for _, info := range srv.Seed(ws) {
					printDetail("seeded topicmap %s %q in workspace %s", info.ID, info.Name, ws)
				}
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return serve(ctx, srv, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "create demo topicmaps")
	return cmd
}

// serve runs srv on ln until ctx is done.
func serve(ctx context.Context, srv *devserver.Server, ln net.Listener) error {
	hs := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	url := "http://" + ln.Addr().String()
	printSuccess("Serving on %s", StyleLink.Render(url))
	printNextStep("Connect with", fmt.Sprintf("%s --server %s maps list", appName, url))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not closed by Shutdown.
	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	printInfo("Server stopped")
	return nil
}
