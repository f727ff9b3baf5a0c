package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmaps/pkg/directive"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/push"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [topicmap-id]",
		Short: "Follow changes to a topicmap until interrupted",
		Long: `Follow changes to a topicmap until interrupted.

The topicmap is loaded and then kept in sync with the push channel: directives
from the graph store and edits made by other clients are applied as they
arrive, and every resulting change is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			s, err := c.openSession(ctx, printEvent)
			if err != nil {
				return err
			}
			defer s.Close()

			vm, err := c.selectTopicmap(ctx, s, args)
			if err != nil {
				return err
			}
			url, err := c.pushURL()
			if err != nil {
				return err
			}

			msgs := make(chan push.Message, 64)
			pc := &push.Client{
				URL:      url,
				ClientID: s.client.ClientID(),
				Logger:   logger,
				OnConnect: func() {
					printSuccess("Watching %s", StyleTitle.Render(vm.Name()))
					printDetail("%s · press Ctrl-C to stop", url)
				},
			}
			errc := make(chan error, 1)
			go func() {
				errc <- pc.Run(ctx, msgs)
				close(msgs)
			}()

			// The dispatcher is the only goroutine touching the registry from here on.
			d := push.NewDispatcher(directive.NewReconciler(s.reg, logger), s.reg, logger)
			err = d.Run(ctx, msgs, func(m push.Message, err error) {
				if err != nil {
					printError("%s: %v", m.Type, err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if err := <-errc; err != nil {
				return err
			}
			printInfo("Stopped")
			return nil
		},
	}

	return cmd
}

// printEvent prints one view model change.
func printEvent(id model.ID, e topicmap.Event) {
	if e.ID == model.NoID {
		printInfo("topicmap %s: %s", id, e.Kind)
		return
	}
	printInfo("topicmap %s: %s %s", id, e.Kind, e.ID)
}
