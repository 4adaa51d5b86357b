package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/observation-displayer/internal/adapters/console"
	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("actor left")

// world is one running session of the in-world commands: the console host
// stands in for the game and every actor shares the same registry.
type world struct {
	app      *app
	out      io.Writer
	host     *console.Host
	guided   *application.GuidedEntry
	triggers *application.TriggerChannel
	clicks   *application.MarkerClickHandler
}

func newWorld(a *app, out io.Writer, spawn domain.Location) *world {
	host := console.NewHost(out, spawn)

	guided := application.NewGuidedEntry(application.GuidedEntryConfig{
		Templates:      a.templates,
		Observations:   a.observations,
		Prompter:       host,
		Namespace:      a.cfg.CallbackNamespace,
		Expiration:     a.cfg.GuidedExpiration,
		FieldMaxLength: a.cfg.GuidedMaxLength,
		Metrics:        a.metrics,
		Logger:         a.logger,
	})

	return &world{
		app:    a,
		out:    out,
		host:   host,
		guided: guided,
		triggers: application.NewTriggerChannel(guided, application.TriggerChannelConfig{
			Namespace: a.cfg.CallbackNamespace,
			Rate:      a.cfg.CallbackRate,
			Burst:     a.cfg.CallbackBurst,
			Metrics:   a.metrics,
			Logger:    a.logger,
		}),
		clicks: application.NewMarkerClickHandler(a.observations, host),
	}
}

// handle processes one console line. Trigger messages are consumed by the
// trigger channel; everything else runs as a command.
func (w *world) handle(ctx context.Context, line console.Line) {
	actor := w.host.Join(line.Actor)

	if w.triggers.Intercept(ctx, actor, line.Message) {
		return
	}
	if err := w.dispatch(ctx, actor, line.Message); err != nil && !errors.Is(err, errQuit) {
		w.host.Message(actor, err.Error())
	}
}

func (w *world) dispatch(ctx context.Context, actor domain.Actor, message string) error {
	message = strings.TrimSpace(message)
	if !strings.HasPrefix(message, "/") {
		return fmt.Errorf("unknown command %q, commands start with /", message)
	}

	root := w.commandTree(actor)
	root.SetArgs(strings.Fields(strings.TrimPrefix(message, "/")))
	return root.ExecuteContext(ctx)
}

func (w *world) commandTree(actor domain.Actor) *cobra.Command {
	root := &cobra.Command{
		Use:           "/",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(w.out)
	root.SetErr(w.out)
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		w.observeCmd(actor),
		w.observationsCmd(actor),
		w.menuCmd(actor),
		w.clickCmd(actor),
		w.moveCmd(actor),
		w.quitCmd(actor),
		w.completeCmd(actor),
	)

	return root
}

func (w *world) observeCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "observe [text]",
		Short: "Leave an observation where you stand, or pick a template",
		RunE: func(_ *cobra.Command, args []string) error {
			view := w.host.Location(actor.ID)
			if len(args) == 0 {
				w.guided.OpenMenu(actor, view)
				return nil
			}

			content := strings.Join(args, " ")
			expiration, err := resolveExpiration("", w.app.cfg.DefaultExpiration, w.app.now())
			if err != nil {
				return err
			}
			record := domain.Record{Author: actor.Name, View: view, Content: content, Expiration: expiration}
			if err := record.Validate(); err != nil {
				return err
			}

			w.app.observations.Create(actor, view, content, expiration)
			w.host.Message(actor, "Observation placed!")
			return nil
		},
	}
}

func (w *world) menuCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <slot|close>",
		Short: "Click a template menu slot, or close the menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if strings.EqualFold(args[0], "close") {
				w.host.CloseMenu(actor)
				w.guided.MenuClosed(actor)
				return nil
			}

			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot %q", args[0])
			}
			if !w.host.MenuOpen(actor.ID) {
				return errors.New("no menu is open, use /observe first")
			}
			w.guided.ClickMenu(actor, slot)
			return nil
		},
	}
}

func (w *world) clickCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "click <marker>",
		Short: "Click a marker to visit its observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			handle, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid marker %q", args[0])
			}
			if !w.clicks.Click(actor, ports.MarkerHandle(handle)) {
				return fmt.Errorf("marker %d is not an observation", handle)
			}
			return nil
		},
	}
}

func (w *world) moveCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "move <world> <x> <y> <z> [yaw pitch]",
		Short: "Stand somewhere else",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 4 && len(args) != 6 {
				return errors.New("usage: /move <world> <x> <y> <z> [yaw pitch]")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			coords := make([]float64, 5)
			for i, raw := range args[1:] {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q", raw)
				}
				coords[i] = v
			}

			to := domain.Location{World: args[0], X: coords[0], Y: coords[1], Z: coords[2], Yaw: coords[3], Pitch: coords[4]}
			if err := to.Validate(); err != nil {
				return err
			}
			w.host.Move(actor.ID, to)
			w.host.Message(actor, "Now at "+to.String())
			return nil
		},
	}
}

func (w *world) quitCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Leave the world",
		RunE: func(_ *cobra.Command, _ []string) error {
			w.leave(actor)
			return errQuit
		},
	}
}

// leave drops the actor's guided-entry session and any callback tokens it
// still holds.
func (w *world) leave(actor domain.Actor) {
	w.guided.Abandon(actor.ID)
	w.triggers.Forget(actor.ID)
	w.host.Leave(actor.ID)
}

// completeCmd prints the candidates for the word following args, as tab
// completion would offer them.
func (w *world) completeCmd(actor domain.Actor) *cobra.Command {
	return &cobra.Command{
		Use:                "complete [words...]",
		Short:              "Suggest what can come next",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, suggestion := range w.complete(actor, append(args, "")) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), suggestion); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// complete asks the command tree for completions of the last element of
// args.
func (w *world) complete(actor domain.Actor, args []string) []string {
	var buf bytes.Buffer
	root := w.commandTree(actor)
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	if err := root.Execute(); err != nil {
		return nil
	}

	var out []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "_") {
			continue
		}
		name, _, _ := strings.Cut(line, "\t")
		if name == "complete" {
			continue
		}
		out = append(out, name)
	}
	return out
}
