// Package console is a line-oriented host for the observation tools. It
// stands in for the world: it tracks where each actor is and shows them
// menus, prompts and messages as text.
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

type actorState struct {
	actor    domain.Actor
	location domain.Location
	menuOpen bool
}

type Host struct {
	mu     sync.Mutex
	out    io.Writer
	spawn  domain.Location
	actors map[domain.ActorID]*actorState
	styles styles
}

var (
	_ ports.Prompter   = (*Host)(nil)
	_ ports.Teleporter = (*Host)(nil)
)

// NewHost writes to out. Actors seen for the first time stand at spawn.
func NewHost(out io.Writer, spawn domain.Location) *Host {
	return &Host{
		out:    out,
		spawn:  spawn,
		actors: map[domain.ActorID]*actorState{},
		styles: newStyles(),
	}
}

// Join returns the actor for id, registering it at spawn if needed.
func (h *Host) Join(id domain.ActorID) domain.Actor {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stateLocked(id).actor
}

// Leave forgets an actor. It reports whether the actor was known.
func (h *Host) Leave(id domain.ActorID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.actors[id]; !ok {
		return false
	}
	delete(h.actors, id)
	return true
}

func (h *Host) Location(id domain.ActorID) domain.Location {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stateLocked(id).location
}

func (h *Host) Move(id domain.ActorID, to domain.Location) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stateLocked(id).location = to
}

func (h *Host) MenuOpen(id domain.ActorID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.actors[id]
	return ok && s.menuOpen
}

// Actors lists the known actors by id.
func (h *Host) Actors() []domain.Actor {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Actor, 0, len(h.actors))
	for _, s := range h.actors {
		out = append(out, s.actor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *Host) ShowMenu(actor domain.Actor, catalog domain.Catalog) {
	h.mu.Lock()
	h.stateLocked(actor.ID).menuOpen = true
	h.mu.Unlock()

	lines := []string{h.styles.title.Render(catalog.Menu.Title)}
	for _, t := range catalog.Sorted() {
		line := fmt.Sprintf("%2d  %s [%s]", t.Position, t.Title, t.Glyph)
		if len(t.Lore) > 0 {
			line += h.styles.faint.Render(" - " + strings.Join(t.Lore, " "))
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("%2d  %s [%s]", catalog.Menu.Cancel.Position, catalog.Menu.Cancel.Name, catalog.Menu.Cancel.Glyph))
	lines = append(lines, h.styles.faint.Render("choose with /menu <slot>, or /menu close"))

	h.write(actor, lines...)
}

func (h *Host) CloseMenu(actor domain.Actor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.actors[actor.ID]; ok {
		s.menuOpen = false
	}
}

func (h *Host) Prompt(actor domain.Actor, prompt ports.Prompt) {
	lines := []string{prompt.Text}
	for _, opt := range prompt.Options {
		lines = append(lines, "  "+opt.Label+"  "+h.styles.command.Render(opt.Command))
	}
	if prompt.FreeText != nil {
		lines = append(lines, "  "+prompt.FreeText.Label+"  "+h.styles.command.Render(prompt.FreeText.Command+" <text>"))
	}

	h.write(actor, lines...)
}

func (h *Host) Message(actor domain.Actor, text string) {
	h.write(actor, text)
}

func (h *Host) Teleport(actor domain.Actor, to domain.Location) {
	h.Move(actor.ID, to)
	h.write(actor, "Teleported to "+to.String())
}

func (h *Host) stateLocked(id domain.ActorID) *actorState {
	s, ok := h.actors[id]
	if !ok {
		s = &actorState{actor: domain.Actor{ID: id, Name: string(id)}, location: h.spawn}
		h.actors[id] = s
	}
	return s
}

func (h *Host) write(actor domain.Actor, lines ...string) {
	prefix := h.styles.actor.Render("[" + actor.Name + "]")

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.out, b.String())
}

type styles struct {
	title   lipgloss.Style
	actor   lipgloss.Style
	command lipgloss.Style
	faint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		actor:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		faint:   lipgloss.NewStyle().Faint(true),
	}
}
