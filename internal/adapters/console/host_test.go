package console

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/observation-displayer/internal/adapters/templates"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spawn = domain.Location{World: "world", X: 0.5, Y: 64, Z: 0.5}

func TestHostTracksActors(t *testing.T) {
	host := NewHost(&bytes.Buffer{}, spawn)

	poi := host.Join("Poi")
	assert.Equal(t, domain.Actor{ID: "Poi", Name: "Poi"}, poi)
	assert.Equal(t, spawn, host.Location("Poi"))

	moved := domain.Location{World: "world_nether", X: 10, Y: 70, Z: -4, Yaw: 90}
	host.Move("Poi", moved)
	assert.Equal(t, moved, host.Location("Poi"))

	host.Join("Kiwi")
	assert.Equal(t, []domain.Actor{{ID: "Kiwi", Name: "Kiwi"}, poi}, host.Actors())

	assert.True(t, host.Leave("Poi"))
	assert.False(t, host.Leave("Poi"))
	assert.Equal(t, spawn, host.Location("Poi"))
}

func TestHostShowAndCloseMenu(t *testing.T) {
	var out bytes.Buffer
	host := NewHost(&out, spawn)
	poi := host.Join("Poi")

	host.ShowMenu(poi, templates.Default())

	assert.True(t, host.MenuOpen("Poi"))
	text := out.String()
	assert.Contains(t, text, "[Poi] Observation Templates")
	assert.Contains(t, text, " 1  Analogy [LIGHT_BLUE_CONCRETE]")
	assert.Contains(t, text, " 8  Cancel [BARRIER]")
	assert.Contains(t, text, "/menu <slot>")

	host.CloseMenu(poi)
	assert.False(t, host.MenuOpen("Poi"))
}

func TestHostPromptListsCommands(t *testing.T) {
	var out bytes.Buffer
	host := NewHost(&out, spawn)
	poi := host.Join("Poi")

	host.Prompt(poi, ports.Prompt{
		Text: "What did you observe?",
		Options: []ports.PromptOption{
			{Label: "The sky", Command: "/observe:callback aaaa"},
		},
		FreeText: &ports.PromptOption{Label: "Other", Command: "/observe:callback bbbb"},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[Poi] What did you observe?", lines[0])
	assert.Contains(t, lines[1], "The sky  /observe:callback aaaa")
	assert.Contains(t, lines[2], "Other  /observe:callback bbbb <text>")
}

func TestHostTeleport(t *testing.T) {
	var out bytes.Buffer
	host := NewHost(&out, spawn)
	poi := host.Join("Poi")
	to := domain.Location{World: "world", X: 10.5, Y: 64, Z: -3.25}

	host.Teleport(poi, to)

	assert.Equal(t, to, host.Location("Poi"))
	assert.Contains(t, out.String(), "[Poi] Teleported to world, 10, 64, -4")
}

func TestHostConcurrentWrites(t *testing.T) {
	var out bytes.Buffer
	host := NewHost(&out, spawn)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			host.Message(host.Join(domain.ActorID(rune('a'+i))), "hello")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(out.String(), "hello\n"))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		raw  string
		want Line
		ok   bool
	}{
		{raw: "/observe rock", want: Line{Actor: "console", Message: "/observe rock"}, ok: true},
		{raw: "Poi: /observations list", want: Line{Actor: "Poi", Message: "/observations list"}, ok: true},
		{raw: "  Kiwi:   /menu 3 ", want: Line{Actor: "Kiwi", Message: "/menu 3"}, ok: true},
		{raw: "/observe:callback abc", want: Line{Actor: "console", Message: "/observe:callback abc"}, ok: true},
		{raw: "Poi:", ok: false},
		{raw: "", ok: false},
		{raw: "# comment", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseLine(tt.raw, "console")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServeDeliversLinesInOrder(t *testing.T) {
	in := strings.NewReader("Poi: /observe one\n\n/observe two\nKiwi: /quit\n")

	var got []Line
	err := Serve(context.Background(), in, "console", func(_ context.Context, line Line) {
		got = append(got, line)
	})

	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Actor: "Poi", Message: "/observe one"},
		{Actor: "console", Message: "/observe two"},
		{Actor: "Kiwi", Message: "/quit"},
	}, got)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Serve(ctx, blockingReader{}, "console", func(context.Context, Line) {
		t.Fatal("no line expected")
	})

	assert.NoError(t, err)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
