// Package marker is an in-process presentation surface: it keeps the
// markers the registry renders and draws them as text cards.
package marker

import (
	"sort"
	"sync"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Marker is a snapshot of one rendered marker.
type Marker struct {
	Handle ports.MarkerHandle
	Anchor domain.Location
	Lines  []domain.MarkerLine
}

type Board struct {
	mu      sync.Mutex
	next    ports.MarkerHandle
	markers map[ports.MarkerHandle]*Marker
	styles  styles
}

var _ ports.Presenter = (*Board)(nil)

func NewBoard() *Board {
	return &Board{
		markers: map[ports.MarkerHandle]*Marker{},
		styles:  newStyles(),
	}
}

func (b *Board) Render(anchor domain.Location, lines []domain.MarkerLine) ports.MarkerHandle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.markers[b.next] = &Marker{
		Handle: b.next,
		Anchor: anchor,
		Lines:  append([]domain.MarkerLine(nil), lines...),
	}

	return b.next
}

// Destroy ignores handles that are unknown or already destroyed.
func (b *Board) Destroy(handle ports.MarkerHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.markers, handle)
}

func (b *Board) ReplaceLine(handle ports.MarkerHandle, index int, line domain.MarkerLine) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.markers[handle]
	if !ok || index < 0 || index >= len(m.Lines) {
		return
	}
	m.Lines[index] = line
}

func (b *Board) Get(handle ports.MarkerHandle) (Marker, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.markers[handle]
	if !ok {
		return Marker{}, false
	}
	return snapshot(m), true
}

// Markers returns every live marker ordered by handle.
func (b *Board) Markers() []Marker {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Marker, 0, len(b.markers))
	for _, m := range b.markers {
		out = append(out, snapshot(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })

	return out
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.markers)
}

// View draws the markers, optionally only those in world.
func (b *Board) View(world string) string {
	markers := b.Markers()

	cards := make([]string, 0, len(markers))
	for _, m := range markers {
		if world != "" && m.Anchor.World != world {
			continue
		}
		cards = append(cards, renderCard(m, b.styles))
	}
	if len(cards) == 0 {
		return b.styles.empty.Render("No markers.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func snapshot(m *Marker) Marker {
	return Marker{
		Handle: m.Handle,
		Anchor: m.Anchor,
		Lines:  append([]domain.MarkerLine(nil), m.Lines...),
	}
}
