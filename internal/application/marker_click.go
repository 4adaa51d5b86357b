package application

import (
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
)

// MarkerClickHandler sends whoever clicks a marker to the view location of
// the observation behind it. One handler serves every marker.
type MarkerClickHandler struct {
	observations *ObservationRegistry
	teleporter   ports.Teleporter
}

func NewMarkerClickHandler(observations *ObservationRegistry, teleporter ports.Teleporter) *MarkerClickHandler {
	return &MarkerClickHandler{observations: observations, teleporter: teleporter}
}

func (h *MarkerClickHandler) Click(actor domain.Actor, handle ports.MarkerHandle) bool {
	o, ok := h.observations.ByMarker(handle)
	if !ok {
		return false
	}

	h.teleporter.Teleport(actor, o.ViewLocation())
	return true
}
