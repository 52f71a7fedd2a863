package telemetry

// ring is a bounded FIFO: pushing beyond capacity evicts the oldest entry.
type ring[T any] struct {
	max   int
	items []T
}

func newRing[T any](max int) ring[T] {
	return ring[T]{max: max, items: make([]T, 0, max)}
}

func (r *ring[T]) push(v T) {
	if r.max <= 0 {
		return
	}
	if len(r.items) == r.max {
		copy(r.items, r.items[1:])
		r.items[len(r.items)-1] = v
		return
	}
	r.items = append(r.items, v)
}

// copyItems returns the ring contents oldest-first.
func (r *ring[T]) copyItems() []T {
	if len(r.items) == 0 {
		return nil
	}
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}
