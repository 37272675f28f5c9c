package metrics

import (
	"fmt"
	"strings"
)

// Factory builds a fresh accumulator carrying the given name.
type Factory func(name string) Accumulator

// UnknownMetricError is returned when a metric name has no registered factory.
type UnknownMetricError struct {
	Name  string
	Known []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Registry maps metric names to accumulator factories and remembers the order
// in which names were first registered.
// Registration is not synchronised: populate a registry before sharing it.
type Registry struct {
	order     []string
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the standard metric set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("precision@1", PrecisionAt(1))
	r.Register("recall@3", RecallAt(3))
	r.Register("recall@50", RecallAt(50))
	r.Register("recall@1000", RecallAt(1000))
	r.Register("mrr", MRRAt(0))
	r.Register("mrr@10", MRRAt(10))
	return r
}

// RegisterThresholdMetrics adds the dynamic-threshold precision and recall
// variants, which are left out of DefaultRegistry.
func RegisterThresholdMetrics(r *Registry) {
	r.Register("precision@threshold", func(name string) Accumulator { return NewThresholdedPrecision(name) })
	r.Register("recall@threshold", func(name string) Accumulator { return NewThresholdedRecall(name) })
}

// Register binds name to f. Registering an existing name replaces its factory
// and keeps its original position in Names.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

// Names lists registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Resolve(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownMetricError{Name: name, Known: r.Names()}
	}
	return f, nil
}

// ResolveAll resolves every name, failing on the first unknown one.
func (r *Registry) ResolveAll(names []string) ([]Factory, error) {
	factories := make([]Factory, 0, len(names))
	for _, name := range names {
		f, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}

// New resolves name and builds an accumulator for it.
func (r *Registry) New(name string) (Accumulator, error) {
	f, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return f(name), nil
}

// PrecisionAt is precision over the top k candidates.
func PrecisionAt(k int) Factory {
	return func(name string) Accumulator { return NewPrecision(name, TopK{K: k}) }
}

// RecallAt is recall over the top k candidates.
func RecallAt(k int) Factory {
	return func(name string) Accumulator { return NewRecall(name, TopK{K: k}) }
}

// MRRAt is reciprocal rank with a rank cutoff; cutoff <= 0 means no cutoff.
func MRRAt(cutoff int) Factory {
	return func(name string) Accumulator { return NewReciprocalRank(name, cutoff) }
}
