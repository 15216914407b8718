package local

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/glosa/pkg/core"
)

// feed fans change events out to watch subscribers. Delivery is best effort:
// a subscriber that stops draining its channel loses events rather than
// stalling store operations.
type feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
	buffer int
}

type subscriber struct {
	pattern string
	ch      chan core.Event
}

func newFeed(buffer int) *feed {
	return &feed{
		subs:   make(map[int]*subscriber),
		buffer: buffer,
	}
}

func (f *feed) publish(e core.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if !matchPattern(sub.pattern, e.URI) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			// Subscriber is not keeping up; drop.
		}
	}
}

func (f *feed) subscribe(pattern string) (int, <-chan core.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	sub := &subscriber{
		pattern: pattern,
		ch:      make(chan core.Event, f.buffer),
	}
	f.subs[id] = sub
	return id, sub.ch
}

func (f *feed) unsubscribe(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(sub.ch)
	}
}

// Watch implements core.Watchable: it streams change events for annotations
// whose URI matches the given doublestar pattern. The subscription lives
// until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, Error.New("invalid watch pattern: %s", pattern)
	}

	id, ch := s.feed.subscribe(pattern)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		s.feed.unsubscribe(id)
		return nil
	})

	return ch, nil
}

func matchPattern(pattern, uri string) bool {
	if pattern == "" || pattern == "**" {
		return true
	}
	if strings.ContainsAny(pattern, "*?[{") {
		ok, err := doublestar.Match(pattern, uri)
		return err == nil && ok
	}
	return pattern == uri
}
