package application

import (
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
)

// Observation is the single live instance of a recorded observation. Its
// mutable state is guarded by the owning registry's mutex.
type Observation struct {
	reg *ObservationRegistry

	createdAt time.Time
	author    string
	view      domain.Location
	anchor    domain.Location
	content   string
	temporary bool

	id         domain.ObservationID
	expiration *time.Time
	glyph      domain.Glyph
	marker     ports.MarkerHandle
	live       bool
	// pendingInactive is set when the observation was removed before its
	// durable id arrived; the record is marked inactive once it exists.
	pendingInactive bool
	onInactive      []func()
}

func (o *Observation) ID() domain.ObservationID {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return o.id
}

func (o *Observation) CreatedAt() time.Time          { return o.createdAt }
func (o *Observation) Author() string                { return o.author }
func (o *Observation) ViewLocation() domain.Location { return o.view }
func (o *Observation) Anchor() domain.Location       { return o.anchor }
func (o *Observation) Content() string               { return o.content }
func (o *Observation) Temporary() bool               { return o.temporary }

func (o *Observation) Expiration() *time.Time {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return cloneTime(o.expiration)
}

func (o *Observation) Glyph() domain.Glyph {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return o.glyph
}

func (o *Observation) Marker() ports.MarkerHandle {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return o.marker
}

// Live reports whether the observation is still registered.
func (o *Observation) Live() bool {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return o.live
}

func (o *Observation) Record() domain.Record {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	return o.recordLocked()
}

func (o *Observation) Summary() string {
	return domain.Summary(o.ID(), o.content, o.author, o.anchor)
}

func (o *Observation) recordLocked() domain.Record {
	return domain.Record{
		ID:         o.id,
		CreatedAt:  o.createdAt,
		Author:     o.author,
		View:       o.view,
		Content:    o.content,
		Expiration: cloneTime(o.expiration),
		Temporary:  o.temporary,
	}
}

func (o *Observation) expiredLocked(now time.Time) bool {
	return !o.temporary && o.recordLocked().Expired(now)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
