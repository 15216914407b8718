// Package lifecycle bridges the annotation change feed into the generic
// lifecycle runtime, so applications supervising their components with
// lifecycle can treat store changes as just another event source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/glosa/pkg/core"
)

type feedSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits annotation change events.
// It bridges the typed change-feed channel to the generic lifecycle Event
// interface.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &feedSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

// SourceFor subscribes to a backend's change feed, filtered by the URI glob
// pattern, and wraps the subscription as a lifecycle.Source. The subscription
// ends when ctx is cancelled.
func SourceFor(ctx context.Context, backend core.Watchable, pattern string) (lifecycle.Source, error) {
	events, err := backend.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return NewSource(events), nil
}

func (s *feedSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *feedSource) Start(ctx context.Context) error {
	// The forwarding goroutine runs under lifecycle.Go so the runtime tracks it.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					// Feed closed upstream (backend shut down).
					return nil
				}
				// core.Event satisfies lifecycle.Event via String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
