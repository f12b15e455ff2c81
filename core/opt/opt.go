// core/opt/opt.go
package opt

// Val is an explicit optional value. The zero Val is unset, so "has this
// field been filled yet" is a type-level question instead of a sentinel
// comparison.
type Val[T any] struct {
	v  T
	ok bool
}

// Of returns a set Val holding v.
func Of[T any](v T) Val[T] { return Val[T]{v: v, ok: true} }

// None returns an unset Val.
func None[T any]() Val[T] { return Val[T]{} }

func (o Val[T]) IsSet() bool { return o.ok }

// Get returns the value and whether it is set.
func (o Val[T]) Get() (T, bool) { return o.v, o.ok }

// Or returns the value when set, fallback otherwise.
func (o Val[T]) Or(fallback T) T {
	if o.ok {
		return o.v
	}
	return fallback
}

// Set overwrites the value unconditionally.
func (o *Val[T]) Set(v T) { o.v, o.ok = v, true }

// Fill sets o from v only when o is unset and v is set.
// It reports whether o changed. First fill wins; later fills are no-ops.
func (o *Val[T]) Fill(v Val[T]) bool {
	if o.ok || !v.ok {
		return false
	}
	*o = v
	return true
}
