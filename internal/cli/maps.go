package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/export"
	"github.com/matzehuels/topicmaps/pkg/localstate"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// Export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// mapsCommand creates the topicmap command group.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "maps",
		Aliases: []string{"topicmaps"},
		Short:   "List, inspect and export topicmaps",
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsShowCommand())
	cmd.AddCommand(c.mapsCreateCommand())
	cmd.AddCommand(c.mapsDeleteCommand())
	cmd.AddCommand(c.mapsExportCommand())

	return cmd
}

// mapsListCommand creates the "maps list" subcommand.
func (c *CLI) mapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the topicmaps of a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			ws, err := c.resolveWorkspace(ctx, s)
			if err != nil {
				return err
			}
			var infos []model.TopicmapInfo
			err = withSpinner("Fetching topicmaps...", func() error {
				infos, err = s.reg.RefreshSummaries(ctx, ws)
				return err
			})
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("Workspace %d has no topicmaps", ws)
				printNextStep("Create one", appName+" maps create NAME")
				return nil
			}

			last, _, err := localstate.GetID(ctx, s.state, localstate.TopicmapKey(ws))
			if err != nil {
				loggerFromContext(ctx).Warn("ignoring topicmap hint", "err", err)
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				cur := ""
				if info.ID == last {
					cur = iconCurrent
				}
				rows = append(rows, []string{cur, info.ID.String(), info.Name, info.RendererURI})
			}
			printTable([]string{"", "ID", "Name", "Renderer"}, rows, func(row int) bool {
				return infos[row].ID == last
			})
			return nil
		},
	}
}

// mapsShowCommand creates the "maps show" subcommand.
func (c *CLI) mapsShowCommand() *cobra.Command {
	var hidden bool

	cmd := &cobra.Command{
		Use:   "show [topicmap-id]",
		Short: "Print a topicmap and its topics",
		Long: `Print a topicmap and its topics.

Without an id the last selected topicmap of the workspace is shown. Showing a
topicmap selects it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			vm, err := c.selectTopicmap(ctx, s, args)
			if err != nil {
				return err
			}
			printTopicmap(vm, hidden)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden topics")
	return cmd
}

// mapsCreateCommand creates the "maps create" subcommand.
func (c *CLI) mapsCreateCommand() *cobra.Command {
	var rendererURI string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a topicmap and select it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := c.selectTopicmap(ctx, s, nil); err != nil {
				return err
			}
			vm, err := s.reg.CreateTopicmap(ctx, args[0], rendererURI)
			if err != nil {
				return err
			}
			printSuccess("Created topicmap %s", StyleTitle.Render(vm.Name()))
			printDetail("id %s · %s", vm.ID(), vm.RendererURI())
			return nil
		},
	}

	cmd.Flags().StringVar(&rendererURI, "renderer", "", "renderer URI (default client.default_renderer)")
	return cmd
}

// mapsDeleteCommand creates the "maps delete" subcommand.
func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TOPICMAP-ID",
		Short: "Delete a topicmap",
		Long: `Delete a topicmap on the server.

Topics and associations stay in the graph. If the deleted topicmap was the
selected one, another topicmap of the workspace is selected, and an empty
workspace gets a new default topicmap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := model.ParseID(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid topicmap id %q", args[0])
			}

			s, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := c.selectTopicmap(ctx, s, nil); err != nil {
				return err
			}
			if err := s.client.DeleteTopicmap(ctx, id); err != nil {
				return err
			}
			vm, err := s.reg.DeleteTopicmap(ctx, id, s.reg.Workspace())
			if err != nil {
				return err
			}

			printSuccess("Deleted topicmap %s", id)
			if vm != nil {
				printDetail("selected %s (%s)", vm.Name(), vm.ID())
			}
			return nil
		},
	}
}

// mapsExportCommand creates the "maps export" subcommand.
func (c *CLI) mapsExportCommand() *cobra.Command {
	var (
		outPath string
		format  string
		opts    export.Options
	)

	cmd := &cobra.Command{
		Use:   "export [topicmap-id]",
		Short: "Export a topicmap as Graphviz DOT or SVG",
		Long: `Export a topicmap as Graphviz DOT or SVG.

Topics keep the positions stored on the topicmap unless --layout is given.
Without --output the result is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}

			s, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			vm, err := c.selectTopicmap(ctx, s, args)
			if err != nil {
				return err
			}

			data := []byte(export.ToDOT(vm, opts))
			if format == formatSVG {
				stop := startTimer(ctx)
				if data, err = export.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
				stop("rendered svg")
			}

			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			printSuccess("Exported %s", StyleTitle.Render(vm.Name()))
			printFile(outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.Layout, "layout", false, "let Graphviz place the topics")
	cmd.Flags().BoolVar(&opts.Hidden, "hidden", false, "include hidden topics")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add types and view properties to labels")
	return cmd
}

// printTopicmap prints the summary and the topic table of vm.
func printTopicmap(vm *topicmap.Viewmodel, hidden bool) {
	t := vm.Translation()
	visible := vm.VisibleTopics()

	fmt.Fprintln(output, StyleTitle.Render(vm.Name()))
	printKeyValue("ID", vm.ID().String())
	printKeyValue("Renderer", vm.RendererURI())
	printKeyValue("Workspace", vm.Info().WorkspaceID.String())
	printKeyValue("Topics", fmt.Sprintf("%d visible / %d", len(visible), vm.TopicCount()))
	printKeyValue("Associations", strconv.Itoa(vm.AssociationCount()))
	printKeyValue("Translation", fmtPoint(t))
	if !vm.Writable() {
		printWarning("read-only")
	}

	topics := visible
	if hidden {
		topics = vm.Topics()
	}
	if len(topics) == 0 {
		return
	}
	rows := make([][]string, 0, len(topics))
	for _, vt := range topics {
		rows = append(rows, []string{vt.ID.String(), vt.Label, vt.TypeURI, fmtPoint(vt.Position)})
	}
	printTable([]string{"ID", "Label", "Type", "Position"}, rows, func(row int) bool {
		return topics[row].Visible && hidden
	})
}

func fmtPoint(p model.Point) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64)
}
