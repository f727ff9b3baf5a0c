package cli

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmaps/pkg/config"
	"github.com/matzehuels/topicmaps/pkg/localstate"
)

// stateCommand creates the local state command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect the locally remembered workspace and topicmaps",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateClearCommand())

	return cmd
}

// stateShowCommand creates the "state show" subcommand.
func (c *CLI) stateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the remembered selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.cfg.State.OpenState(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			all, err := st.All(ctx)
			if err != nil {
				return err
			}
			printKeyValue("Backend", c.cfg.State.Backend)
			if fs, ok := st.(*localstate.FileStore); ok {
				printKeyValue("Directory", fs.Path())
			}
			if len(all) == 0 {
				printInfo("Nothing remembered yet")
				return nil
			}
			for _, k := range slices.Sorted(maps.Keys(all)) {
				printKeyValue(k, all[k])
			}
			return nil
		},
	}
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the remembered selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.cfg.State.OpenState(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			all, err := st.All(ctx)
			if err != nil {
				return err
			}
			for k := range all {
				if err := st.Delete(ctx, k); err != nil {
					return err
				}
			}
			printSuccess("Cleared %d entries", len(all))
			if c.cfg.State.Backend == config.BackendMemory {
				printWarning("the memory backend forgets everything on exit anyway")
			}
			return nil
		},
	}
}
