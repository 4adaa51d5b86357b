package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/spf13/cobra"
)

func (w *world) observationsCmd(actor domain.Actor) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "observations",
		Aliases: []string{"obs"},
		Short:   "Manage observations",
	}

	cmd.AddCommand(
		w.listObservationsCmd(actor),
		w.removeObservationCmd(actor),
		w.infoObservationCmd(actor),
		w.expireObservationCmd(actor),
		w.glyphObservationCmd(actor),
		w.sweepObservationsCmd(actor),
		w.teleportObservationCmd(actor),
		w.markersCmd(),
	)

	return cmd
}

func (w *world) listObservationsCmd(actor domain.Actor) *cobra.Command {
	var player, worldName string

	cmd := &cobra.Command{
		Use:   "list [page]",
		Short: "List observations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			page := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid page %q", args[0])
				}
				page = n
			}

			result := w.app.observations.Page(application.ListingQuery{
				Filter:   application.Filter{Author: player, World: worldName},
				Page:     page,
				PageSize: w.app.cfg.PageSize,
			})
			if result.Total == 0 {
				w.host.Message(actor, "No observations found.")
				return nil
			}
			for _, entry := range result.Entries {
				w.host.Message(actor, entry.Summary())
			}
			w.host.Message(actor, fmt.Sprintf("Page %d of %d (%d total)", result.Page, result.Pages, result.Total))
			return nil
		},
	}

	cmd.Flags().StringVarP(&player, "player", "p", "", "Only observations by this player")
	cmd.Flags().StringVarP(&worldName, "world", "w", "", "Only observations in this world")
	_ = cmd.RegisterFlagCompletionFunc("player", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return w.app.observations.CompleteAuthors(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (w *world) removeObservationCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <id>",
		Short:             "Remove an observation",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: w.completeIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			o, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			id := o.ID()
			w.app.observations.DeleteAndMarkInactive(o, func() {
				w.host.Message(actor, fmt.Sprintf("Observation #%d removed from storage.", id))
			})
			w.host.Message(actor, fmt.Sprintf("Observation #%d removed.", id))
			return nil
		},
	}
}

func (w *world) infoObservationCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:               "info <id>",
		Short:             "Show an observation",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: w.completeIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			o, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			lines := []string{
				o.Summary(),
				"Placed by " + o.Author() + " on " + domain.FormatDate(o.CreatedAt()),
				"View from " + o.ViewLocation().String(),
			}
			switch {
			case o.Temporary():
				lines = append(lines, "Temporary")
			case o.Expiration() != nil:
				lines = append(lines, "Expires "+domain.FormatDate(*o.Expiration()))
			default:
				lines = append(lines, "Never expires")
			}
			for _, line := range lines {
				w.host.Message(actor, line)
			}
			return nil
		},
	}
}

func (w *world) expireObservationCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:               "expire <id> <duration|never>",
		Short:             "Change when an observation expires",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: w.completeIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			o, err := w.lookup(args[0])
			if err != nil {
				return err
			}
			expiration, err := resolveExpiration(args[1], 0, w.app.now())
			if err != nil {
				return err
			}
			if expiration == nil && !strings.EqualFold(args[1], "never") {
				return fmt.Errorf("invalid expiration %q, use a positive duration or never", args[1])
			}

			w.app.observations.SetExpiration(o, expiration)
			if expiration == nil {
				w.host.Message(actor, fmt.Sprintf("Observation #%d never expires.", o.ID()))
				return nil
			}
			w.host.Message(actor, fmt.Sprintf("Observation #%d expires %s.", o.ID(), domain.FormatDate(*expiration)))
			return nil
		},
	}
}

func (w *world) glyphObservationCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:               "glyph <id> <GLYPH>",
		Short:             "Change the item shown on a marker",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: w.completeIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			o, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			glyph := domain.Glyph(strings.ToUpper(args[1]))
			w.app.observations.SetGlyph(o, glyph)
			w.host.Message(actor, fmt.Sprintf("Observation #%d now shows %s.", o.ID(), glyph))
			return nil
		},
	}
}

func (w *world) sweepObservationsCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired observations now",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			removed := w.app.observations.SweepExpired()
			w.host.Message(actor, fmt.Sprintf("Removed %d expired %s.", removed, pluralize(removed, "observation")))
			return nil
		},
	}
}

func (w *world) teleportObservationCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:               "tp <id>",
		Short:             "Go to where an observation was made",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: w.completeIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			o, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			w.host.Teleport(actor, o.ViewLocation())
			return nil
		},
	}
}

func (w *world) markersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers [world]",
		Short: "Draw the markers currently shown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), w.app.board.View(filter))
			return err
		},
	}
}

func (w *world) lookup(raw string) (*application.Observation, error) {
	id, err := parseObservationID(raw)
	if err != nil {
		return nil, err
	}

	o, ok := w.app.observations.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("observation #%d: %w", id, domain.ErrObservationNotFound)
	}
	return o, nil
}

func (w *world) completeIDs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return w.app.observations.CompleteIDs(toComplete), cobra.ShellCompDirectiveNoFileComp
}
