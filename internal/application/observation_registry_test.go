package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) (*ObservationRegistry, *mocks.MockPersistenceGateway, *fakePresenter, *testClock) {
	t.Helper()

	gateway := mocks.NewMockPersistenceGateway(t)
	presenter := newFakePresenter()
	clock := newTestClock(t0)
	registry := NewObservationRegistry(ObservationRegistryConfig{
		Gateway:   gateway,
		Presenter: presenter,
		Clock:     clock,
	})

	return registry, gateway, presenter, clock
}

func storedRecord(id domain.ObservationID, author, content string, expiration *time.Time) domain.Record {
	return domain.Record{
		ID:         id,
		CreatedAt:  t0.Add(-time.Hour),
		Author:     author,
		View:       spawn,
		Content:    content,
		Expiration: expiration,
	}
}

func TestObservationRegistryCreateStoresOnceAndPromotesID(t *testing.T) {
	registry, gateway, presenter, _ := newTestRegistry(t)

	var stored domain.Record
	gateway.EXPECT().StoreNew(mock.Anything, mock.Anything).
		Run(func(record domain.Record, onStored func(domain.ObservationID)) {
			stored = record
			onStored(0)
		}).
		Return().
		Once()

	o := registry.Create(poi, spawn, "Cool rock formation", nil)

	require.Equal(t, 1, registry.Len())
	assert.Equal(t, domain.ObservationID(0), o.ID())
	assert.True(t, o.ID().Assigned())
	assert.False(t, o.Temporary())
	assert.Nil(t, o.Expiration())
	assert.Equal(t, "Poi", o.Author())
	assert.Equal(t, t0, o.CreatedAt())

	assert.Equal(t, domain.UnassignedID, stored.ID)
	assert.Equal(t, "Cool rock formation", stored.Content)

	marker, ok := presenter.marker(o.Marker())
	require.True(t, ok)
	assert.Equal(t, domain.DefaultMarkerPlacement.Anchor(spawn), marker.anchor)
	assert.Equal(t, domain.MarkerLine{Glyph: domain.DefaultGlyph}, marker.lines[0])
	assert.Equal(t, "Cool rock formation", marker.lines[1].Text)
}

func TestObservationRegistryObservationUsableBeforeIDArrives(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)

	var onStored func(domain.ObservationID)
	gateway.EXPECT().StoreNew(mock.Anything, mock.Anything).
		Run(func(_ domain.Record, cb func(domain.ObservationID)) { onStored = cb }).
		Return()

	o := registry.Create(poi, spawn, "Lichen on the north face", nil)
	assert.Equal(t, domain.UnassignedID, o.ID())
	assert.True(t, o.Live())

	_, found := registry.Lookup(domain.UnassignedID)
	assert.False(t, found)

	onStored(12)
	got, found := registry.Lookup(12)
	require.True(t, found)
	assert.Same(t, o, got)

	onStored(13)
	assert.Equal(t, domain.ObservationID(12), o.ID())
}

func TestObservationRegistrySweepExpiredRemovesOnlyExpired(t *testing.T) {
	registry, gateway, presenter, _ := newTestRegistry(t)

	past := t0.Add(-time.Hour)
	expired := registry.LoadExisting(storedRecord(1, "Poi", "Puddle after rain", &past))
	kept := registry.LoadExisting(storedRecord(2, "Poi", "Granite outcrop", nil))

	gateway.EXPECT().MarkAllExpiredInactive(mock.Anything).
		Run(func(onDone func(int64)) { onDone(1) }).
		Return().
		Once()

	assert.Equal(t, 1, registry.SweepExpired())
	assert.Equal(t, []*Observation{kept}, registry.List())
	assert.False(t, expired.Live())
	assert.Equal(t, 1, presenter.live())

	// Nothing left to expire: no second storage call.
	assert.Zero(t, registry.SweepExpired())
}

func TestObservationRegistrySweepKeepsTemporaryAndUnexpired(t *testing.T) {
	registry, gateway, _, clock := newTestRegistry(t)

	past := t0.Add(-time.Minute)
	future := t0.Add(time.Hour)
	now := t0
	registry.LoadTemporary(storedRecord(1, "Poi", "Scaffold", &past))
	registry.LoadExisting(storedRecord(2, "Poi", "Soon", &future))
	boundary := registry.LoadExisting(storedRecord(3, "Poi", "Exactly now", &now))

	assert.Zero(t, registry.SweepExpired())
	assert.Equal(t, 3, registry.Len())

	gateway.EXPECT().MarkAllExpiredInactive(mock.Anything).Return().Once()
	clock.Advance(time.Nanosecond)

	assert.Equal(t, 1, registry.SweepExpired())
	assert.False(t, boundary.Live())
	assert.Equal(t, 2, registry.Len())
}

func TestObservationRegistryDeleteIsIdempotent(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(4, "Kiwi", "Fallen log", nil))

	assert.True(t, registry.Delete(o))
	assert.False(t, registry.Delete(o))
	assert.False(t, registry.Delete(nil))

	assert.Zero(t, registry.Len())
	assert.Equal(t, 1, presenter.destroyedCount())
	_, found := registry.ByMarker(1)
	assert.False(t, found)
}

func TestObservationRegistryDeleteForeignObservation(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t)
	other, _, _, _ := newTestRegistry(t)

	o := other.LoadExisting(storedRecord(1, "Kiwi", "Elsewhere", nil))
	assert.False(t, registry.Delete(o))
	assert.True(t, o.Live())
}

func TestObservationRegistryConcurrentDeleteAndSweep(t *testing.T) {
	registry, gateway, presenter, _ := newTestRegistry(t)
	gateway.EXPECT().MarkAllExpiredInactive(mock.Anything).Return().Maybe()
	gateway.EXPECT().MarkInactive(mock.Anything, mock.Anything).Return().Maybe()

	past := t0.Add(-time.Hour)
	const n = 50
	observations := make([]*Observation, 0, n)
	for i := range n {
		observations = append(observations, registry.LoadExisting(storedRecord(domain.ObservationID(i), "Poi", "Old note", &past)))
	}

	var removed atomic.Int64
	var wg sync.WaitGroup
	for i, o := range observations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				if registry.Delete(o) {
					removed.Add(1)
				}
				return
			}
			if registry.DeleteAndMarkInactive(o, nil) {
				removed.Add(1)
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removed.Add(int64(registry.SweepExpired()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), removed.Load())
	assert.Zero(t, registry.Len())
	assert.Zero(t, presenter.live())
	assert.Equal(t, n, presenter.destroyedCount())
}

func TestObservationRegistryDeleteAndMarkInactive(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(9, "Poi", "Moss", nil))

	gateway.EXPECT().MarkInactive(domain.ObservationID(9), mock.Anything).
		Run(func(_ domain.ObservationID, onDone func()) { onDone() }).
		Return().
		Once()

	done := 0
	assert.True(t, registry.DeleteAndMarkInactive(o, func() { done++ }))
	assert.Equal(t, 1, done)

	assert.False(t, registry.DeleteAndMarkInactive(o, func() { done++ }))
	assert.Equal(t, 2, done)
}

func TestObservationRegistryDeleteBeforeIDArrivesMarksInactiveOnPromotion(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)

	var onStored func(domain.ObservationID)
	gateway.EXPECT().StoreNew(mock.Anything, mock.Anything).
		Run(func(_ domain.Record, cb func(domain.ObservationID)) { onStored = cb }).
		Return()

	o := registry.Create(poi, spawn, "Short lived", nil)

	done := false
	require.True(t, registry.DeleteAndMarkInactive(o, func() { done = true }))
	assert.False(t, done)
	gateway.AssertNotCalled(t, "MarkInactive", mock.Anything, mock.Anything)

	gateway.EXPECT().MarkInactive(domain.ObservationID(21), mock.Anything).
		Run(func(_ domain.ObservationID, onDone func()) { onDone() }).
		Return().
		Once()

	onStored(21)
	assert.True(t, done)
	assert.Equal(t, domain.ObservationID(21), o.ID())
	assert.False(t, o.Live())
}

func TestObservationRegistrySweepBeforeIDArrivesMarksInactiveOnPromotion(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)

	var onStored func(domain.ObservationID)
	gateway.EXPECT().StoreNew(mock.Anything, mock.Anything).
		Run(func(_ domain.Record, cb func(domain.ObservationID)) { onStored = cb }).
		Return()
	gateway.EXPECT().MarkAllExpiredInactive(mock.Anything).Return().Once()

	past := t0.Add(-time.Second)
	registry.Create(poi, spawn, "Expired on arrival", &past)
	assert.Equal(t, 1, registry.SweepExpired())

	gateway.EXPECT().MarkInactive(domain.ObservationID(5), mock.Anything).Return().Once()
	onStored(5)
}

func TestObservationRegistrySetGlyphReplacesFirstLine(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(1, "Poi", "Shiny", nil))

	registry.SetGlyph(o, "AMETHYST_SHARD")

	assert.Equal(t, domain.Glyph("AMETHYST_SHARD"), o.Glyph())
	marker, ok := presenter.marker(o.Marker())
	require.True(t, ok)
	assert.Equal(t, domain.MarkerLine{Glyph: "AMETHYST_SHARD"}, marker.lines[0])

	registry.SetGlyph(o, "")
	assert.Equal(t, domain.DefaultGlyph, o.Glyph())
}

func TestObservationRegistrySetExpirationRedrawsMarker(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(1, "Poi", "Tide pool", nil))
	before := o.Marker()

	at := t0.Add(2 * time.Hour)
	registry.SetExpiration(o, &at)

	after := o.Marker()
	assert.NotEqual(t, before, after)
	marker, ok := presenter.marker(after)
	require.True(t, ok)
	assert.Equal(t, "Expires "+domain.FormatDate(at), marker.lines[3].Text)

	_, found := registry.ByMarker(before)
	assert.False(t, found)
	found2, ok := registry.ByMarker(after)
	require.True(t, ok)
	assert.Same(t, o, found2)

	registry.SetExpiration(o, nil)
	marker, ok = presenter.marker(o.Marker())
	require.True(t, ok)
	assert.Len(t, marker.lines, 3)

	registry.Delete(o)
	registry.SetExpiration(o, &at)
	assert.Zero(t, o.Marker())
	assert.Empty(t, presenter.markers)
}

func TestObservationRegistryRerender(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(1, "Poi", "Tide pool", nil))
	before := o.Marker()

	require.True(t, registry.Rerender(o))
	assert.NotEqual(t, before, o.Marker())
	_, ok := presenter.marker(o.Marker())
	assert.True(t, ok)

	registry.Delete(o)
	assert.False(t, registry.Rerender(o))
}

func TestObservationRegistryLoadExistingDeduplicates(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)

	first := registry.LoadExisting(storedRecord(3, "Poi", "Cairn", nil))
	second := registry.LoadExisting(storedRecord(3, "Poi", "Cairn", nil))

	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, presenter.live())
}

func TestObservationRegistryLoadRestoresThroughGateway(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)

	records := []domain.Record{
		storedRecord(1, "Poi", "Basalt columns", nil),
		storedRecord(2, "Kiwi", "Owl pellet", nil),
	}
	gateway.EXPECT().LoadAll(mock.Anything).
		Run(func(onLoaded func([]domain.Record)) { go onLoaded(records) }).
		Return().
		Once()

	n, err := registry.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, registry.Len())
}

func TestObservationRegistryRestoreKeepsTemporaryRecordsOutOfSweeps(t *testing.T) {
	registry, _, presenter, _ := newTestRegistry(t)

	past := t0.Add(-time.Minute)
	scaffold := storedRecord(4, "Poi", "Scaffold", &past)
	scaffold.Temporary = true

	assert.Equal(t, 1, registry.Restore([]domain.Record{scaffold}))
	o, ok := registry.Lookup(4)
	require.True(t, ok)
	assert.True(t, o.Temporary())

	m, ok := presenter.marker(o.Marker())
	require.True(t, ok)
	assert.Equal(t, "*temporary*", m.lines[len(m.lines)-1].Text)

	assert.Zero(t, registry.SweepExpired())
	assert.Equal(t, 1, registry.Len())
}

func TestObservationRegistryLoadHonoursContext(t *testing.T) {
	registry, gateway, _, _ := newTestRegistry(t)
	gateway.EXPECT().LoadAll(mock.Anything).Return().Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := registry.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestObservationRegistryListByFilter(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t)

	poiNote := registry.LoadExisting(storedRecord(1, "Poi", "Quartz vein", nil))
	kiwiNote := registry.LoadExisting(storedRecord(2, "Kiwi", "Beaver dam", nil))
	nether := storedRecord(3, "Poitier", "Basalt delta", nil)
	nether.View.World = "world_nether"
	netherNote := registry.LoadExisting(nether)

	assert.Equal(t, []*Observation{poiNote, netherNote}, registry.ListByFilter(Filter{Author: "poi"}))
	assert.Equal(t, []*Observation{kiwiNote}, registry.ListByFilter(Filter{Author: "KI"}))
	assert.Equal(t, []*Observation{netherNote}, registry.ListByFilter(Filter{World: "world_n"}))
	assert.Len(t, registry.ListByFilter(Filter{}), 3)
	assert.Empty(t, registry.ListByFilter(Filter{Author: "nobody"}))
}

func TestObservationSummary(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t)
	o := registry.LoadExisting(storedRecord(7, "Poi", "A very long description of a waterfall", nil))

	assert.Equal(t, `7. "A very long descript . . ." > Poi (world, 10, 67, -2)`, o.Summary())
}
