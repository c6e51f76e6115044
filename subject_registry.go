// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/flowbase/reactor/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reactor

import (
	"context"
	"sync"
	"sync/atomic"
)

// observerRegistry is the shared multicast bookkeeping behind every Subject
// flavor that fans out to an unbounded set of observers (Behavior, Replay,
// Async): a sync.Map keyed by a monotonically increasing index, so each
// Subscription's teardown can remove exactly the entry it added without a
// linear scan. Embedded anonymously, it also satisfies the HasObserver/
// CountObservers half of the Subject interface for its embedder.
type observerRegistry[T any] struct {
	observers sync.Map
	nextIndex uint32
}

// attach stores observer under a fresh index and wires subscription's
// teardown to remove it again.
func (r *observerRegistry[T]) attach(observer Observer[T], subscription Subscription) {
	index := atomic.AddUint32(&r.nextIndex, 1) - 1
	r.observers.Store(index, observer)

	subscription.Add(func() {
		r.observers.Delete(index)
	})
}

// detachAll drops every registered observer, used once a Subject has gone
// terminal and its existing subscriptions no longer need individual removal.
func (r *observerRegistry[T]) detachAll() {
	r.observers.Range(func(key, _ any) bool {
		r.observers.Delete(key)

		return true
	})
}

// HasObserver implements Subject.
func (r *observerRegistry[T]) HasObserver() bool {
	has := false

	r.observers.Range(func(_, _ any) bool {
		has = true

		return false
	})

	return has
}

// CountObservers implements Subject.
func (r *observerRegistry[T]) CountObservers() int {
	count := 0

	r.observers.Range(func(_, _ any) bool {
		count++

		return true
	})

	return count
}

func (r *observerRegistry[T]) broadcastNext(ctx context.Context, value T) {
	r.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).NextWithContext(ctx, value) //nolint:errcheck,forcetypeassert

		return true
	})
}

func (r *observerRegistry[T]) broadcastError(ctx context.Context, err error) {
	r.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).ErrorWithContext(ctx, err) //nolint:errcheck,forcetypeassert

		return true
	})
}

func (r *observerRegistry[T]) broadcastComplete(ctx context.Context) {
	r.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).CompleteWithContext(ctx) //nolint:errcheck,forcetypeassert

		return true
	})
}
