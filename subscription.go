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
	"sync"

	"github.com/samber/lo"
	"github.com/flowbase/reactor/internal/xerrors"
)

// Teardown is a cleanup callback run once, when the owning Subscription is
// cancelled: closing a file, stopping a goroutine, releasing a lock.
type Teardown func()

// Unsubscribable is anything that can be told to stop.
type Unsubscribable interface {
	Unsubscribe()
}

// Subscription represents one ongoing Observable execution and lets the
// holder cancel it.
type Subscription interface {
	Unsubscribable

	Add(teardown Teardown)
	AddUnsubscribable(unsubscribable Unsubscribable)
	IsClosed() bool
	Wait() // Note: using .Wait() is not recommended.
}

var _ Subscription = (*teardownGroup)(nil)

// NewSubscription builds a Subscription starting with zero or one teardown.
// A nil teardown is simply not registered. If the Subscription is already
// cancelled by the time Add/NewSubscription runs, the teardown fires at once.
func NewSubscription(teardown Teardown) Subscription {
	group := &teardownGroup{teardowns: make([]Teardown, 0, 4)}
	if teardown != nil {
		group.teardowns = append(group.teardowns, teardown)
	}

	return group
}

// teardownGroup is a Subscription backed by an ordered list of Teardown
// callbacks, all run once, in registration order, when cancelled.
type teardownGroup struct {
	mu        sync.Mutex // a RWMutex would help IsClosed, but benchmarks showed ~30% overhead for this workload
	cancelled bool
	teardowns []Teardown
}

// Add registers teardown to run on cancellation, or runs it immediately if
// the group is already cancelled. A nil teardown is ignored. Thread-safe.
func (g *teardownGroup) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancelled {
		teardown() // not shielded from panics: caller added it after the fact

		return
	}

	g.teardowns = append(g.teardowns, teardown)
}

// AddUnsubscribable folds another Unsubscribable into this group, so
// cancelling this Subscription cancels it too. A nil argument is ignored.
func (g *teardownGroup) AddUnsubscribable(unsubscribable Unsubscribable) {
	if unsubscribable == nil {
		return
	}

	g.Add(unsubscribable.Unsubscribe)
}

// Unsubscribe runs every registered teardown, in order, exactly once.
// Panicking teardowns are caught individually and joined into one error
// raised only after every teardown has had a chance to run.
func (g *teardownGroup) Unsubscribe() {
	g.mu.Lock()

	if g.cancelled {
		g.mu.Unlock()

		return
	}

	g.cancelled = true
	pending := g.teardowns
	g.teardowns = nil
	g.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	var failures []error

	for _, teardown := range pending {
		if err := runTeardown(teardown); err != nil {
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		// errors.Join arrived in go 1.20; xerrors fills the gap for older targets.
		panic(xerrors.Join(failures...))
	}
}

// IsClosed reports whether Unsubscribe has run (or is running).
func (g *teardownGroup) IsClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.cancelled
}

// Wait blocks until the group is cancelled. Prefer observing termination
// through the Observer passed to Subscribe; this exists for callers that
// genuinely need to block the current goroutine.
func (g *teardownGroup) Wait() {
	done := make(chan struct{}, 1)

	// Not guaranteed to be the last teardown to run if others are added later.
	g.Add(func() {
		done <- struct{}{}
	})

	<-done
	close(done)
}

// runTeardown executes teardown, converting a panic into an error instead of
// letting it unwind past the caller.
func runTeardown(teardown Teardown) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			teardown()

			return nil
		},
		func(recovered any) {
			err = newUnsubscriptionError(recoverValueToError(recovered))
		},
	)

	return err
}

// @TODO: support removing a single teardown from the group. Go gives no way
// to compare function values, so there's currently no key to remove by.
