package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/observation-displayer/internal/adapters/render/listing"
	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/spf13/cobra"
)

type listingJSON struct {
	Page    int                `json:"page"`
	Pages   int                `json:"pages"`
	Total   int                `json:"total"`
	Entries []listingEntryJSON `json:"observations"`
}

type listingEntryJSON struct {
	ID         domain.ObservationID `json:"id"`
	Author     string               `json:"author"`
	Content    string               `json:"content"`
	World      string               `json:"world"`
	X          int                  `json:"x"`
	Y          int                  `json:"y"`
	Z          int                  `json:"z"`
	CreatedAt  time.Time            `json:"created_at"`
	Expiration *time.Time           `json:"expiration,omitempty"`
	Temporary  bool                 `json:"temporary,omitempty"`
}

func newListCmd(deps *lazyApp) *cobra.Command {
	var (
		player string
		world  string
		page   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.run(func(a *app) error {
				if err := a.load(cmd.Context()); err != nil {
					return err
				}

				result := a.observations.Page(application.ListingQuery{
					Filter:   application.Filter{Author: player, World: world},
					Page:     page,
					PageSize: a.cfg.PageSize,
				})

				return writeListingOutput(cmd, a, result, asJSON)
			})
		},
	}

	cmd.Flags().StringVarP(&player, "player", "p", "", "Only observations by this author (prefix, case-insensitive)")
	cmd.Flags().StringVarP(&world, "world", "w", "", "Only observations in this world (prefix, case-insensitive)")
	cmd.Flags().IntVar(&page, "page", 1, "Page to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func writeListingOutput(cmd *cobra.Command, a *app, page application.ListingPage, asJSON bool) error {
	if asJSON {
		out := listingJSON{Page: page.Page, Pages: page.Pages, Total: page.Total, Entries: make([]listingEntryJSON, 0, len(page.Entries))}
		for _, e := range page.Entries {
			out.Entries = append(out.Entries, listingEntryJSON{
				ID:         e.ID,
				Author:     e.Author,
				Content:    e.Content,
				World:      e.Anchor.World,
				X:          e.Anchor.BlockX(),
				Y:          e.Anchor.BlockY(),
				Z:          e.Anchor.BlockZ(),
				CreatedAt:  e.CreatedAt,
				Expiration: e.Expiration,
				Temporary:  e.Temporary,
			})
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rendered, err := a.listingRenderer(page, listing.RenderOptions{Now: a.now()})
	if err != nil {
		return fmt.Errorf("render listing: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newAddCmd(deps *lazyApp) *cobra.Command {
	var (
		actor   string
		world   string
		x, y, z float64
		yaw     float64
		pitch   float64
		expires string
	)

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Place an observation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.run(func(a *app) error {
				content := strings.Join(args, " ")
				view := domain.Location{World: world, X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch}

				expiration, err := resolveExpiration(expires, a.cfg.DefaultExpiration, a.now())
				if err != nil {
					return err
				}
				record := domain.Record{Author: actor, View: view, Content: content, Expiration: expiration}
				if err := record.Validate(); err != nil {
					return err
				}

				if err := a.load(cmd.Context()); err != nil {
					return err
				}
				o := a.observations.Create(domain.Actor{ID: domain.ActorID(actor), Name: actor}, view, content, expiration)

				if err := a.flush(cmd.Context(), cmd.ErrOrStderr()); err != nil {
					return fmt.Errorf("save observation: %w", err)
				}
				if !o.ID().Assigned() {
					return fmt.Errorf("save observation: %w", domain.ErrStorageUnavailable)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Observation #%d placed at %s\n", o.ID(), o.Anchor())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Author of the observation")
	cmd.Flags().StringVar(&world, "world", "world", "World the observation is in")
	cmd.Flags().Float64Var(&x, "x", 0, "X of the view location")
	cmd.Flags().Float64Var(&y, "y", 64, "Y of the view location")
	cmd.Flags().Float64Var(&z, "z", 0, "Z of the view location")
	cmd.Flags().Float64Var(&yaw, "yaw", 0, "Facing yaw in degrees")
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "Facing pitch in degrees")
	cmd.Flags().StringVar(&expires, "expires", "", "Expire after this duration (e.g. 24h), or never")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newRemoveCmd(deps *lazyApp) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseObservationID(args[0])
			if err != nil {
				return err
			}

			return deps.run(func(a *app) error {
				if err := a.load(cmd.Context()); err != nil {
					return err
				}

				o, ok := a.observations.Lookup(id)
				if !ok {
					return fmt.Errorf("observation %d: %w", id, domain.ErrObservationNotFound)
				}

				removed := make(chan struct{})
				a.observations.DeleteAndMarkInactive(o, func() { close(removed) })
				if err := a.flush(cmd.Context(), cmd.ErrOrStderr()); err != nil {
					return fmt.Errorf("remove observation: %w", err)
				}

				select {
				case <-removed:
				default:
					return fmt.Errorf("remove observation %d: %w", id, domain.ErrStorageUnavailable)
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Observation #%d removed\n", id)
				return err
			})
		},
	}
}

func newSweepCmd(deps *lazyApp) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.run(func(a *app) error {
				if err := a.load(cmd.Context()); err != nil {
					return err
				}

				removed := a.observations.SweepExpired()
				if err := a.flush(cmd.Context(), cmd.ErrOrStderr()); err != nil {
					return fmt.Errorf("sweep observations: %w", err)
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired %s\n", removed, pluralize(removed, "observation"))
				return err
			})
		},
	}
}

func parseObservationID(raw string) (domain.ObservationID, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id < 0 {
		return domain.UnassignedID, fmt.Errorf("invalid observation id %q", raw)
	}
	return domain.ObservationID(id), nil
}

// resolveExpiration turns a flag value into an absolute expiration. Empty
// falls back to fallback; "never" and zero mean no expiration.
func resolveExpiration(raw string, fallback time.Duration, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "never") {
		return nil, nil
	}

	d := fallback
	if raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q: %w", raw, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("invalid expiration %q: must not be negative", raw)
		}
		d = parsed
	}
	if d == 0 {
		return nil, nil
	}

	at := now.Add(d)
	return &at, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
