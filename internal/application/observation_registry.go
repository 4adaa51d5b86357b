package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
)

// ObservationRegistry is the authoritative set of live observations. It
// renders markers synchronously and hands durability to the gateway without
// waiting on it.
type ObservationRegistry struct {
	mu       sync.Mutex
	entries  []*Observation
	byMarker map[ports.MarkerHandle]*Observation

	gateway      ports.PersistenceGateway
	presenter    ports.Presenter
	clock        ports.Clock
	metrics      ports.Metrics
	logger       *slog.Logger
	placement    domain.MarkerPlacement
	storeTimeout time.Duration
}

type ObservationRegistryConfig struct {
	Gateway   ports.PersistenceGateway
	Presenter ports.Presenter
	Clock     ports.Clock
	Metrics   ports.Metrics
	Logger    *slog.Logger
	Placement *domain.MarkerPlacement
	// StoreTimeout is how long to wait for a durable id before logging that
	// an observation may not survive a restart. Zero disables the check.
	StoreTimeout time.Duration
}

func NewObservationRegistry(cfg ObservationRegistryConfig) *ObservationRegistry {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ports.NopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	placement := domain.DefaultMarkerPlacement
	if cfg.Placement != nil {
		placement = *cfg.Placement
	}

	return &ObservationRegistry{
		byMarker:     map[ports.MarkerHandle]*Observation{},
		gateway:      cfg.Gateway,
		presenter:    cfg.Presenter,
		clock:        cfg.Clock,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		placement:    placement,
		storeTimeout: cfg.StoreTimeout,
	}
}

// Create registers and renders a new observation, then asks the gateway to
// store it. The durable id replaces the provisional one when storage
// completes; until then the observation is fully usable in memory.
func (r *ObservationRegistry) Create(actor domain.Actor, view domain.Location, content string, expiration *time.Time) *Observation {
	o := r.newObservation(domain.Record{
		ID:         domain.UnassignedID,
		CreatedAt:  r.clock.Now(),
		Author:     actor.Name,
		View:       view,
		Content:    content,
		Expiration: cloneTime(expiration),
	})

	r.mu.Lock()
	r.registerLocked(o)
	record := o.recordLocked()
	r.mu.Unlock()

	r.metrics.ObservationCreated()
	r.gateway.StoreNew(record, func(id domain.ObservationID) {
		r.promote(o, id)
	})
	if r.storeTimeout > 0 {
		time.AfterFunc(r.storeTimeout, func() { r.checkDurable(o) })
	}

	return o
}

// LoadExisting registers a stored record without storing it again. Loading
// an id that is already registered returns the registered instance.
func (r *ObservationRegistry) LoadExisting(record domain.Record) *Observation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID.Assigned() {
		if existing := r.lookupLocked(record.ID); existing != nil {
			return existing
		}
	}

	o := r.newObservation(record)
	r.registerLocked(o)
	return o
}

func (r *ObservationRegistry) LoadTemporary(record domain.Record) *Observation {
	record.Temporary = true
	return r.LoadExisting(record)
}

// Restore loads every record, typically the result of a gateway LoadAll.
func (r *ObservationRegistry) Restore(records []domain.Record) int {
	for _, record := range records {
		if record.Temporary {
			r.LoadTemporary(record)
			continue
		}
		r.LoadExisting(record)
	}
	return len(records)
}

// Load fetches all active records through the gateway and restores them.
func (r *ObservationRegistry) Load(ctx context.Context) (int, error) {
	loaded := make(chan []domain.Record, 1)
	r.gateway.LoadAll(func(records []domain.Record) {
		loaded <- records
	})

	select {
	case records := <-loaded:
		return r.Restore(records), nil
	case <-ctx.Done():
		return 0, fmt.Errorf("load observations: %w", ctx.Err())
	}
}

// Delete tears down the marker and unregisters o. It reports false when o
// was not registered, so repeated calls are harmless.
func (r *ObservationRegistry) Delete(o *Observation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(o)
}

// DeleteAndMarkInactive deletes o and asks the gateway to mark its record
// inactive. onComplete runs once the gateway is done; when o was already
// gone there is nothing to wait for and it runs immediately.
func (r *ObservationRegistry) DeleteAndMarkInactive(o *Observation, onComplete func()) bool {
	if onComplete == nil {
		onComplete = func() {}
	}

	r.mu.Lock()
	if !r.removeLocked(o) {
		r.mu.Unlock()
		onComplete()
		return false
	}

	id := o.id
	if !id.Assigned() {
		o.pendingInactive = true
		o.onInactive = append(o.onInactive, onComplete)
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()

	r.gateway.MarkInactive(id, onComplete)
	return true
}

// SweepExpired removes every expired, non-temporary observation and then
// issues one batched inactive update. It returns how many were removed by
// this call.
func (r *ObservationRegistry) SweepExpired() int {
	now := r.clock.Now()

	r.mu.Lock()
	var expired []*Observation
	for _, o := range r.entries {
		if o.expiredLocked(now) {
			expired = append(expired, o)
		}
	}
	for _, o := range expired {
		r.removeLocked(o)
		if !o.id.Assigned() {
			o.pendingInactive = true
		}
	}
	r.mu.Unlock()

	count := len(expired)
	if count == 0 {
		return 0
	}

	r.metrics.ObservationsSwept(count)
	r.gateway.MarkAllExpiredInactive(func(stored int64) {
		r.logger.Info("removed expired observations", "count", count, "stored", stored)
	})

	return count
}

func (r *ObservationRegistry) Lookup(id domain.ObservationID) (*Observation, bool) {
	if !id.Assigned() {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.lookupLocked(id)
	return o, o != nil
}

// ByMarker finds the observation a rendered marker belongs to.
func (r *ObservationRegistry) ByMarker(handle ports.MarkerHandle) (*Observation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byMarker[handle]
	return o, ok
}

// List returns a snapshot of the registered observations in registration
// order.
func (r *ObservationRegistry) List() []*Observation {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Observation(nil), r.entries...)
}

// Filter selects observations by case-insensitive prefixes of the author
// name and of the marker's world. Empty fields match everything.
type Filter struct {
	Author string
	World  string
}

func (f Filter) match(o *Observation) bool {
	return hasPrefixFold(o.author, f.Author) && hasPrefixFold(o.anchor.World, f.World)
}

func (r *ObservationRegistry) ListByFilter(f Filter) []*Observation {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Observation
	for _, o := range r.entries {
		if f.match(o) {
			matched = append(matched, o)
		}
	}

	return matched
}

func (r *ObservationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// SetExpiration changes when o expires and redraws its marker so the
// "Expires" line follows.
func (r *ObservationRegistry) SetExpiration(o *Observation, expiration *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.expiration = cloneTime(expiration)
	r.rerenderLocked(o)
}

// SetGlyph swaps the item on the first marker line.
func (r *ObservationRegistry) SetGlyph(o *Observation, glyph domain.Glyph) {
	if glyph == "" {
		glyph = domain.DefaultGlyph
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o.glyph = glyph
	if o.live && o.marker != 0 {
		r.presenter.ReplaceLine(o.marker, 0, domain.MarkerLine{Glyph: glyph})
	}
}

// Rerender replaces the marker of a live observation with a fresh one.
func (r *ObservationRegistry) Rerender(o *Observation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rerenderLocked(o)
}

func (r *ObservationRegistry) rerenderLocked(o *Observation) bool {
	if o == nil || o.reg != r || !o.live {
		return false
	}
	r.destroyMarkerLocked(o)
	r.renderLocked(o)
	return true
}

func (r *ObservationRegistry) newObservation(record domain.Record) *Observation {
	return &Observation{
		reg:        r,
		id:         record.ID,
		createdAt:  record.CreatedAt,
		author:     record.Author,
		view:       record.View,
		anchor:     r.placement.Anchor(record.View),
		content:    record.Content,
		expiration: cloneTime(record.Expiration),
		temporary:  record.Temporary,
		glyph:      domain.DefaultGlyph,
	}
}

func (r *ObservationRegistry) registerLocked(o *Observation) {
	o.live = true
	r.renderLocked(o)
	r.entries = append(r.entries, o)
	r.metrics.ActiveObservations(len(r.entries))
}

func (r *ObservationRegistry) renderLocked(o *Observation) {
	o.marker = r.presenter.Render(o.anchor, domain.MarkerLines(o.recordLocked(), o.glyph))
	r.byMarker[o.marker] = o
}

func (r *ObservationRegistry) destroyMarkerLocked(o *Observation) {
	if o.marker == 0 {
		return
	}
	r.presenter.Destroy(o.marker)
	delete(r.byMarker, o.marker)
	o.marker = 0
}

func (r *ObservationRegistry) removeLocked(o *Observation) bool {
	if o == nil || o.reg != r || !o.live {
		return false
	}

	r.destroyMarkerLocked(o)
	o.live = false
	for i, entry := range r.entries {
		if entry == o {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.metrics.ObservationsDeleted(1)
	r.metrics.ActiveObservations(len(r.entries))

	return true
}

func (r *ObservationRegistry) lookupLocked(id domain.ObservationID) *Observation {
	for _, o := range r.entries {
		if o.id == id {
			return o
		}
	}
	return nil
}

func (r *ObservationRegistry) promote(o *Observation, id domain.ObservationID) {
	r.mu.Lock()
	if o.id.Assigned() {
		r.mu.Unlock()
		r.logger.Warn("observation already has a durable id", "id", o.id, "stored", id)
		return
	}
	o.id = id
	pending := o.pendingInactive
	callbacks := o.onInactive
	o.pendingInactive = false
	o.onInactive = nil
	r.mu.Unlock()

	r.logger.Debug("observation stored", "id", id, "author", o.author)
	if !pending {
		return
	}

	r.gateway.MarkInactive(id, func() {
		for _, cb := range callbacks {
			cb()
		}
	})
}

func (r *ObservationRegistry) checkDurable(o *Observation) {
	r.mu.Lock()
	waiting := o.live && !o.id.Assigned()
	r.mu.Unlock()

	if waiting {
		r.logger.Warn("observation not stored yet; it will not survive a restart",
			"author", o.author, "content", o.content, "after", r.storeTimeout)
	}
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
