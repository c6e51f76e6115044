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

// Package backpressure implements a pull-based variant of reactor's
// push Observable: downstream bounds the number of in-flight Next signals
// by calling Request(n), and a producer that outruns the accumulated
// requests is handled according to an OverflowStrategy.
package backpressure

import (
	"context"
	"errors"
	"math"

	"github.com/flowbase/reactor"
	"github.com/flowbase/reactor/internal/xsync"
)

// ErrMissingBackpressure is emitted (and terminates the Channel) when a
// producer emits with no outstanding request under OverflowError.
var ErrMissingBackpressure = errors.New("backpressure: producer emitted with no outstanding request")

// OverflowStrategy controls what a Channel does when a value is produced
// while the downstream has no outstanding Request(n).
type OverflowStrategy int8

const (
	// OverflowBuffer enqueues the value in an unbounded FIFO. Memory use is
	// unbounded if the producer consistently outruns downstream requests.
	OverflowBuffer OverflowStrategy = iota
	// OverflowDropNewest discards the item that just overflowed.
	OverflowDropNewest
	// OverflowDropOldest drops the oldest buffered item to make room for
	// the new one.
	OverflowDropOldest
	// OverflowDropLatest replaces the most recently buffered item with the
	// new one, keeping everything before it.
	OverflowDropLatest
	// OverflowError emits ErrMissingBackpressure and terminates the Channel.
	OverflowError
)

// Subscription extends reactor.Subscription with pull-based flow control.
type Subscription interface {
	reactor.Subscription

	// Request asks the producer for n additional Next signals. n must be
	// greater than or equal to 1; requesting more than is ever produced is
	// harmless. Accumulated requests never decrease except as they are
	// fulfilled.
	Request(n int64)
}

// Channel is a pull-based Source: Subscribe installs an Observer and
// returns a Subscription whose Request(n) bounds how many Next signals
// the Channel may still deliver.
type Channel[T any] interface {
	Subscribe(destination reactor.Observer[T]) Subscription
	SubscribeWithContext(ctx context.Context, destination reactor.Observer[T]) Subscription

	// AsObservable converts this Channel back into a push reactor.Observable
	// by requesting an effectively unbounded amount on subscribe, so the
	// producer may deliver freely (spec's request(∞) degrade-to-push).
	AsObservable() reactor.Observable[T]
}

// New creates a Channel driven by a producer function. The producer
// receives an Emitter and should call Emit for every value, then at most
// one of Complete or Error; it may run on its own goroutine. strategy
// governs what happens to an Emit call that arrives with no outstanding
// request.
func New[T any](produce func(ctx context.Context, emitter *Emitter[T]), strategy OverflowStrategy) Channel[T] {
	return &channelImpl[T]{
		produce:  produce,
		strategy: strategy,
	}
}

type channelImpl[T any] struct {
	produce  func(ctx context.Context, emitter *Emitter[T])
	strategy OverflowStrategy
}

func (c *channelImpl[T]) Subscribe(destination reactor.Observer[T]) Subscription {
	return c.SubscribeWithContext(context.Background(), destination)
}

func (c *channelImpl[T]) SubscribeWithContext(ctx context.Context, destination reactor.Observer[T]) Subscription {
	sub := newSubscriberSubscription[T](destination, c.strategy)

	emitter := &Emitter[T]{state: sub}

	go func() {
		c.produce(ctx, emitter)
	}()

	return sub
}

func (c *channelImpl[T]) AsObservable() reactor.Observable[T] {
	return reactor.NewObservableWithContext(func(ctx context.Context, destination reactor.Observer[T]) reactor.Teardown {
		sub := c.SubscribeWithContext(ctx, destination)
		sub.Request(math.MaxInt64)

		return sub.Unsubscribe
	})
}

// FromObservable bridges a push reactor.Observable into a pull Channel: the
// source is subscribed each time the Channel is subscribed, and every value it produces is handed
// to the Channel's overflow strategy, since a push source cannot itself be
// asked to slow down.
func FromObservable[T any](source reactor.Observable[T], strategy OverflowStrategy) Channel[T] {
	return New(func(ctx context.Context, emitter *Emitter[T]) {
		done := make(chan struct{})

		sub := source.SubscribeWithContext(ctx, reactor.NewObserverWithContext(
			func(_ context.Context, value T) {
				emitter.Emit(value)
			},
			func(_ context.Context, err error) {
				emitter.Error(err)
				close(done)
			},
			func(_ context.Context) {
				emitter.Complete()
				close(done)
			},
		))

		<-done
		sub.Unsubscribe()
	}, strategy)
}

// Emitter is the producer-facing handle passed to a Channel's produce
// function.
type Emitter[T any] struct {
	state *subscriberSubscription[T]
}

// Emit delivers value downstream if an outstanding request covers it, or
// applies the Channel's OverflowStrategy otherwise.
func (e *Emitter[T]) Emit(value T) {
	e.state.emit(value)
}

// Error terminates the Channel with err. Equivalent to reactor.Observer.Error.
func (e *Emitter[T]) Error(err error) {
	e.state.fail(err)
}

// Complete terminates the Channel normally.
func (e *Emitter[T]) Complete() {
	e.state.complete()
}

var _ Subscription = (*subscriberSubscription[int])(nil)

type subscriberSubscription[T any] struct {
	mu                xsync.Mutex
	destination       reactor.Observer[T]
	strategy          OverflowStrategy
	requested         int64
	buffer            []T
	done              bool
	cancelled         bool
	completionPending bool
}

func newSubscriberSubscription[T any](destination reactor.Observer[T], strategy OverflowStrategy) *subscriberSubscription[T] {
	return &subscriberSubscription[T]{
		destination: destination,
		strategy:    strategy,
		// Request(n)/emit both land on this lock on every single item, the same
		// hot-path shape lockingSubscriber guards with xsync.Mutex in the root
		// package; NewMutexWithLock keeps a real mutex rather than a spinlock
		// since a blocked consumer can legitimately hold it across a Request call.
		mu: xsync.NewMutexWithLock(),
	}
}

func (s *subscriberSubscription[T]) Request(n int64) {
	if n < 1 {
		return
	}

	s.mu.Lock()

	if s.cancelled || s.done {
		s.mu.Unlock()

		return
	}

	s.requested += n

	toDeliver := s.drainLocked()
	fireComplete := s.completionPending && len(s.buffer) == 0

	if fireComplete {
		s.done = true
	}

	s.mu.Unlock()

	for _, v := range toDeliver {
		s.destination.Next(v)
	}

	if fireComplete {
		s.destination.Complete()
	}
}

// drainLocked pops as many buffered values as the current request count
// allows. Caller holds s.mu.
func (s *subscriberSubscription[T]) drainLocked() []T {
	if len(s.buffer) == 0 || s.requested <= 0 {
		return nil
	}

	n := int64(len(s.buffer))
	if n > s.requested {
		n = s.requested
	}

	out := s.buffer[:n]
	s.buffer = s.buffer[n:]
	s.requested -= n

	return out
}

func (s *subscriberSubscription[T]) emit(value T) {
	s.mu.Lock()

	if s.cancelled || s.done {
		s.mu.Unlock()

		return
	}

	if s.requested > 0 {
		s.requested--
		s.mu.Unlock()
		s.destination.Next(value)

		return
	}

	switch s.strategy {
	case OverflowBuffer:
		s.buffer = append(s.buffer, value)
		s.mu.Unlock()
	case OverflowDropNewest:
		s.mu.Unlock()
	case OverflowDropOldest:
		if len(s.buffer) > 0 {
			s.buffer = s.buffer[1:]
		}

		s.buffer = append(s.buffer, value)
		s.mu.Unlock()
	case OverflowDropLatest:
		if len(s.buffer) > 0 {
			s.buffer[len(s.buffer)-1] = value
		} else {
			s.buffer = append(s.buffer, value)
		}

		s.mu.Unlock()
	case OverflowError:
		s.done = true
		s.mu.Unlock()
		s.destination.Error(ErrMissingBackpressure)
	default:
		s.mu.Unlock()
	}
}

func (s *subscriberSubscription[T]) fail(err error) {
	s.mu.Lock()

	if s.cancelled || s.done {
		s.mu.Unlock()

		return
	}

	s.done = true
	s.mu.Unlock()
	s.destination.Error(err)
}

// complete marks the producer as finished. If values are still buffered
// awaiting Request(n), the Complete signal is deferred until the buffer
// fully drains, so delivered Next signals never exceed accumulated
// requests even at the tail of the stream.
func (s *subscriberSubscription[T]) complete() {
	s.mu.Lock()

	if s.cancelled || s.done || s.completionPending {
		s.mu.Unlock()

		return
	}

	if len(s.buffer) == 0 {
		s.done = true
		s.mu.Unlock()
		s.destination.Complete()

		return
	}

	s.completionPending = true
	s.mu.Unlock()
}

func (s *subscriberSubscription[T]) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
	s.buffer = nil
}

func (s *subscriberSubscription[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelled || s.done
}

func (s *subscriberSubscription[T]) Add(teardown reactor.Teardown) {
	if teardown == nil {
		return
	}

	if s.IsClosed() {
		teardown()
	}
}

func (s *subscriberSubscription[T]) AddUnsubscribable(u reactor.Unsubscribable) {
	if u == nil {
		return
	}

	s.Add(u.Unsubscribe)
}

func (s *subscriberSubscription[T]) Wait() {
	// Channels do not currently support blocking wait; callers needing to
	// block should observe completion via the destination Observer.
}
