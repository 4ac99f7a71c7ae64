package workspace

import (
	"context"
	"sync"
)

// Optimistic holds a value that is changed locally before the matching
// remote call completes, and restored if that call fails.
type Optimistic[T any] struct {
	mu    sync.Mutex
	value T
}

func NewOptimistic[T any](v T) *Optimistic[T] {
	return &Optimistic[T]{value: v}
}

func (o *Optimistic[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Optimistic[T]) Set(v T) {
	o.mu.Lock()
	o.value = v
	o.mu.Unlock()
}

// Mutate applies local immediately, then runs remote. On error revert is
// applied to the value as it is at that moment, so changes made while remote
// was running survive, and the error is returned. Neither func may modify its
// argument.
func (o *Optimistic[T]) Mutate(ctx context.Context, local, revert func(T) T, remote func(context.Context) error) error {
	o.mu.Lock()
	o.value = local(o.value)
	o.mu.Unlock()

	if err := remote(ctx); err != nil {
		o.mu.Lock()
		o.value = revert(o.value)
		o.mu.Unlock()
		return err
	}
	return nil
}
