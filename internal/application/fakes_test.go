package application

import (
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
)

type renderedMarker struct {
	anchor domain.Location
	lines  []domain.MarkerLine
}

type fakePresenter struct {
	mu        sync.Mutex
	next      ports.MarkerHandle
	markers   map[ports.MarkerHandle]renderedMarker
	destroyed []ports.MarkerHandle
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{markers: map[ports.MarkerHandle]renderedMarker{}}
}

func (p *fakePresenter) Render(anchor domain.Location, lines []domain.MarkerLine) ports.MarkerHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	p.markers[p.next] = renderedMarker{anchor: anchor, lines: append([]domain.MarkerLine(nil), lines...)}
	return p.next
}

func (p *fakePresenter) Destroy(handle ports.MarkerHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.markers, handle)
	p.destroyed = append(p.destroyed, handle)
}

func (p *fakePresenter) ReplaceLine(handle ports.MarkerHandle, index int, line domain.MarkerLine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.markers[handle]
	if !ok || index >= len(m.lines) {
		return
	}
	m.lines[index] = line
}

func (p *fakePresenter) marker(handle ports.MarkerHandle) (renderedMarker, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.markers[handle]
	return m, ok
}

func (p *fakePresenter) live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.markers)
}

func (p *fakePresenter) destroyedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.destroyed)
}

type fakePrompter struct {
	mu       sync.Mutex
	menus    []domain.Catalog
	closed   int
	prompts  []ports.Prompt
	messages []string
}

func (p *fakePrompter) ShowMenu(_ domain.Actor, catalog domain.Catalog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.menus = append(p.menus, catalog)
}

func (p *fakePrompter) CloseMenu(domain.Actor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
}

func (p *fakePrompter) Prompt(_ domain.Actor, prompt ports.Prompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
}

func (p *fakePrompter) Message(_ domain.Actor, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, text)
}

func (p *fakePrompter) lastPrompt() ports.Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prompts) == 0 {
		return ports.Prompt{}
	}
	return p.prompts[len(p.prompts)-1]
}

func (p *fakePrompter) lastMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}

type staticTemplates struct {
	catalog domain.Catalog
}

func (s staticTemplates) Catalog() domain.Catalog {
	return s.catalog
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceTokens yields predictable UUID-shaped tokens.
func sequenceTokens() func() domain.CallbackToken {
	var mu sync.Mutex
	n := 0
	return func() domain.CallbackToken {
		mu.Lock()
		defer mu.Unlock()
		n++
		return domain.CallbackToken(fmtToken(n))
	}
}

func fmtToken(n int) string {
	const digits = "0123456789abcdef"
	suffix := []byte("000000000000")
	for i := len(suffix) - 1; i >= 0 && n > 0; i-- {
		suffix[i] = digits[n%16]
		n /= 16
	}
	return "00000000-0000-4000-8000-" + string(suffix)
}

var (
	poi   = domain.Actor{ID: "uuid-poi", Name: "Poi"}
	kiwi  = domain.Actor{ID: "uuid-kiwi", Name: "Kiwi"}
	spawn = domain.Location{World: "world", X: 10.5, Y: 64, Z: -3.25}
)
