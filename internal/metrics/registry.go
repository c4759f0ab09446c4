package metrics

import "sync"

// Registry holds the five metric families by name.
//
// It is a plain name-keyed collection: registration replaces any previous
// entry with the same name, and the accessors hand out copies so a report
// cycle iterates over a stable view.
type Registry struct {
	mu         sync.RWMutex
	gauges     map[string]Gauge
	counters   map[string]Counter
	histograms map[string]Histogram
	meters     map[string]Meter
	timers     map[string]Timer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {

	return &Registry{
		gauges:     make(map[string]Gauge),
		counters:   make(map[string]Counter),
		histograms: make(map[string]Histogram),
		meters:     make(map[string]Meter),
		timers:     make(map[string]Timer),
	}
}

// RegisterGauge adds or replaces a gauge under the given name.
func (r *Registry) RegisterGauge(name string, g Gauge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges[name] = g
}

// RegisterCounter adds or replaces a counter under the given name.
func (r *Registry) RegisterCounter(name string, c Counter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] = c
}

// RegisterHistogram adds or replaces a histogram under the given name.
func (r *Registry) RegisterHistogram(name string, h Histogram) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms[name] = h
}

// RegisterMeter adds or replaces a meter under the given name.
func (r *Registry) RegisterMeter(name string, m Meter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meters[name] = m
}

// RegisterTimer adds or replaces a timer under the given name.
func (r *Registry) RegisterTimer(name string, t Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers[name] = t
}

// Gauges returns a copy of the registered gauges.
func (r *Registry) Gauges() map[string]Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Gauge, len(r.gauges))
	for name, g := range r.gauges {
		out[name] = g
	}
	return out
}

// Counters returns a copy of the registered counters.
func (r *Registry) Counters() map[string]Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Counter, len(r.counters))
	for name, c := range r.counters {
		out[name] = c
	}
	return out
}

// Histograms returns a copy of the registered histograms.
func (r *Registry) Histograms() map[string]Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Histogram, len(r.histograms))
	for name, h := range r.histograms {
		out[name] = h
	}
	return out
}

// Meters returns a copy of the registered meters.
func (r *Registry) Meters() map[string]Meter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Meter, len(r.meters))
	for name, m := range r.meters {
		out[name] = m
	}
	return out
}

// Timers returns a copy of the registered timers.
func (r *Registry) Timers() map[string]Timer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Timer, len(r.timers))
	for name, t := range r.timers {
		out[name] = t
	}
	return out
}
