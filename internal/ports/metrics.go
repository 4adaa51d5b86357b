package ports

type Metrics interface {
	ObservationCreated()
	ObservationsDeleted(n int)
	ObservationsSwept(n int)
	ActiveObservations(n int)
	PendingCallbacks(n int)
	TriggerDropped(reason string)
}

type NopMetrics struct{}

func (NopMetrics) ObservationCreated()     {}
func (NopMetrics) ObservationsDeleted(int) {}
func (NopMetrics) ObservationsSwept(int)   {}
func (NopMetrics) ActiveObservations(int)  {}
func (NopMetrics) PendingCallbacks(int)    {}
func (NopMetrics) TriggerDropped(string)   {}
