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

package rxtest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/assert"

	"github.com/flowbase/reactor"
)

// TestObserver records every Next, Error and Complete notification it
// receives, for assertion after a subscription has run to completion (or
// been disposed). Unlike AssertSpec, assertions are made after the fact
// against the recorded history rather than declared up front.
type TestObserver[T any] struct {
	mu           sync.Mutex
	values       []T
	err          error
	errored      bool
	completed    bool
	subscription reactor.Subscription
}

// NewTestObserver creates an empty TestObserver.
func NewTestObserver[T any]() *TestObserver[T] {
	return &TestObserver[T]{}
}

// Next implements reactor.Observer.
func (o *TestObserver[T]) Next(value T) { o.NextWithContext(context.Background(), value) }

// NextWithContext implements reactor.Observer.
func (o *TestObserver[T]) NextWithContext(_ context.Context, value T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.errored || o.completed {
		return
	}

	o.values = append(o.values, value)
}

// Error implements reactor.Observer.
func (o *TestObserver[T]) Error(err error) { o.ErrorWithContext(context.Background(), err) }

// ErrorWithContext implements reactor.Observer.
func (o *TestObserver[T]) ErrorWithContext(_ context.Context, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.errored || o.completed {
		return
	}

	o.errored = true
	o.err = err
}

// Complete implements reactor.Observer.
func (o *TestObserver[T]) Complete() { o.CompleteWithContext(context.Background()) }

// CompleteWithContext implements reactor.Observer.
func (o *TestObserver[T]) CompleteWithContext(_ context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.errored || o.completed {
		return
	}

	o.completed = true
}

// IsClosed implements reactor.Observer.
func (o *TestObserver[T]) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.errored || o.completed
}

// HasThrown implements reactor.Observer.
func (o *TestObserver[T]) HasThrown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.errored
}

// IsCompleted implements reactor.Observer.
func (o *TestObserver[T]) IsCompleted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.completed
}

var _ reactor.Observer[int] = (*TestObserver[int])(nil)

// Subscribe subscribes this TestObserver to source and remembers the
// resulting Subscription so Dispose can tear it down later.
func (o *TestObserver[T]) Subscribe(source reactor.Observable[T]) *TestObserver[T] {
	o.subscription = source.Subscribe(o)

	return o
}

// Values returns every value recorded so far, in arrival order.
func (o *TestObserver[T]) Values() []T {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]T, len(o.values))
	copy(out, o.values)

	return out
}

// Dispose unsubscribes the underlying Subscription, if Subscribe was used
// to attach this TestObserver.
func (o *TestObserver[T]) Dispose() {
	if o.subscription != nil {
		o.subscription.Unsubscribe()
	}
}

// AssertValues fails t if the recorded values don't equal want, in order.
func (o *TestObserver[T]) AssertValues(t assert.TestingT, want ...T) bool {
	return assert.Equal(t, want, o.Values())
}

// AssertValueCount fails t if exactly n values were not recorded.
func (o *TestObserver[T]) AssertValueCount(t assert.TestingT, n int) bool {
	return assert.Len(t, o.Values(), n)
}

// AssertComplete fails t unless Complete was recorded (and no Error was).
func (o *TestObserver[T]) AssertComplete(t assert.TestingT) bool {
	o.mu.Lock()
	completed, errored := o.completed, o.errored
	o.mu.Unlock()

	return assert.True(t, completed, "expected Complete") && assert.False(t, errored, "unexpected Error")
}

// AssertNoErrors fails t if an Error was recorded.
func (o *TestObserver[T]) AssertNoErrors(t assert.TestingT) bool {
	o.mu.Lock()
	errored, err := o.errored, o.err
	o.mu.Unlock()

	return assert.False(t, errored, "unexpected error: %v", err)
}

// AssertError fails t unless the recorded error equals target exactly.
func (o *TestObserver[T]) AssertError(t assert.TestingT, target error) bool {
	o.mu.Lock()
	errored, err := o.errored, o.err
	o.mu.Unlock()

	return assert.True(t, errored, "expected an Error") && assert.Equal(t, target, err)
}

// AssertErrorFunc fails t unless an Error was recorded and pred(err) is true.
func (o *TestObserver[T]) AssertErrorFunc(t assert.TestingT, pred func(error) bool) bool {
	o.mu.Lock()
	errored, err := o.errored, o.err
	o.mu.Unlock()

	if !assert.True(t, errored, "expected an Error") {
		return false
	}

	return assert.True(t, pred(err), "error %v did not satisfy predicate", err)
}
