package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmaps/pkg/buildinfo"
	"github.com/matzehuels/topicmaps/pkg/client"
	"github.com/matzehuels/topicmaps/pkg/config"
	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/localstate"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/push"
	"github.com/matzehuels/topicmaps/pkg/registry"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/renderer/canvas"
	"github.com/matzehuels/topicmaps/pkg/renderer/geomap"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "topicmaps"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	serverURL  string
	workspace  int64
	verbose    bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Topicmaps keeps topicmap views in sync with a graph store",
		Long:              `Topicmaps is a client for a remote knowledge graph. It loads topicmaps into local view models, writes changes back, and applies push messages from other clients as they arrive.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/topicmaps/config.toml)")
	root.PersistentFlags().StringVar(&c.serverURL, "server", "", "graph store URL (overrides server.url)")
	root.PersistentFlags().Int64VarP(&c.workspace, "workspace", "w", 0, "workspace id (overrides client.workspace)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.devserverCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, applies flag overrides, and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.Server.URL = c.serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg

	level := cfg.Log.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles what a command needs to talk to the graph store.
type session struct {
	client *client.Client
	state  localstate.Store
	reg    *registry.Registry
}

func (s *session) Close() error { return s.state.Close() }

// openSession wires the REST client, local state, renderers and registry.
// observer may be nil.
func (c *CLI) openSession(ctx context.Context, observer func(model.ID, topicmap.Event)) (*session, error) {
	logger := loggerFromContext(ctx)

	cl, err := client.New(client.Options{
		BaseURL: c.cfg.Server.URL,
		Timeout: c.cfg.Server.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	renderers, err := renderer.NewRegistry(canvas.New(cl, cl), geomap.New(cl, cl))
	if err != nil {
		return nil, err
	}

	state, err := c.cfg.State.OpenState(ctx)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(registry.Options{
		Service:         cl,
		Renderers:       renderers,
		State:           state,
		DefaultRenderer: c.cfg.Client.DefaultRenderer,
		Writable:        c.cfg.Client.Writable,
		Observer:        observer,
		OnUnsynced: func(e *topicmap.UnsyncedError) {
			logger.Warn("change not saved", "op", e.Op, "topicmap", e.TopicmapID, "object", e.ObjectID, "err", e.Err)
		},
		Logger: logger,
	})
	if err != nil {
		state.Close()
		return nil, err
	}
	return &session{client: cl, state: state, reg: reg}, nil
}

// resolveWorkspace picks the workspace: --workspace, then client.workspace,
// then the last one used.
func (c *CLI) resolveWorkspace(ctx context.Context, s *session) (model.ID, error) {
	if c.workspace > 0 {
		return model.ID(c.workspace), nil
	}
	if c.cfg.Client.Workspace != model.NoID {
		return c.cfg.Client.Workspace, nil
	}
	if ws, ok := s.reg.LastWorkspace(ctx); ok {
		return ws, nil
	}
	return model.NoID, errors.New(errors.ErrCodeInvalidInput, "no workspace: pass --workspace or set client.workspace")
}

// selectTopicmap selects the workspace and then the topicmap named by args,
// or the remembered one when args is empty.
func (c *CLI) selectTopicmap(ctx context.Context, s *session, args []string) (*topicmap.Viewmodel, error) {
	ws, err := c.resolveWorkspace(ctx, s)
	if err != nil {
		return nil, err
	}

	var id model.ID
	if len(args) > 0 {
		if id, err = model.ParseID(args[0]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "topicmap id")
		}
	}

	var vm *topicmap.Viewmodel
	err = withSpinner("Loading topicmap...", func() error {
		stop := startTimer(ctx)
		var err error
		if vm, err = s.reg.SelectWorkspace(ctx, ws); err != nil {
			return err
		}
		if id != model.NoID && id != vm.ID() {
			if vm, err = s.reg.SetSelectedTopicmap(ctx, id); err != nil {
				return err
			}
		}
		stop("loaded topicmap " + vm.ID().String())
		return nil
	})
	return vm, err
}

// pushURL returns server.push_url, or the endpoint derived from server.url.
func (c *CLI) pushURL() (string, error) {
	if c.cfg.Server.PushURL != "" {
		return c.cfg.Server.PushURL, nil
	}
	return push.URLFor(c.cfg.Server.URL)
}
