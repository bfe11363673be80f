package obs

import (
	"sort"
	"strings"
	"sync"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// Summary aggregates histogram observations.
type Summary struct {
	Count int
	Sum   float64
	Max   float64
}

// Registry is an in-memory Meter. Series are keyed as name{k=v,...} with
// labels sorted by key. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	counters map[string]float64
	hists    map[string]Summary
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]float64), hists: make(map[string]Summary)}
}

func (r *Registry) Counter(name string, value float64, labels ...Label) {
	k := seriesKey(name, labels)
	r.mu.Lock()
	r.counters[k] += value
	r.mu.Unlock()
}

func (r *Registry) Histogram(name string, value float64, labels ...Label) {
	k := seriesKey(name, labels)
	r.mu.Lock()
	s := r.hists[k]
	s.Count++
	s.Sum += value
	if value > s.Max {
		s.Max = value
	}
	r.hists[k] = s
	r.mu.Unlock()
}

// CounterValue returns the current value of one counter series.
func (r *Registry) CounterValue(name string, labels ...Label) float64 {
	k := seriesKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[k]
}

func (r *Registry) HistogramValue(name string, labels ...Label) Summary {
	k := seriesKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hists[k]
}

// Counters returns a copy of all counter series.
func (r *Registry) Counters() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

func seriesKey(name string, labels []Label) string {
	if len(labels) == 0 {
		return name
	}
	ls := append([]Label(nil), labels...)
	sort.Slice(ls, func(i, j int) bool { return ls[i].Key < ls[j].Key })
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, l := range ls {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteByte('=')
		b.WriteString(l.Value)
	}
	b.WriteByte('}')
	return b.String()
}
