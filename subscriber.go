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
	"sync/atomic"

	"github.com/flowbase/reactor/internal/xsync"
)

// Subscriber is an Observer wearing a Subscription: every Observer passed
// to Subscribe gets wrapped in one of these internally, so operators gain
// Unsubscribe()/IsClosed() on top of the plain consumer API. Rarely built
// directly by application code.
type Subscriber[T any] interface {
	Subscription
	Observer[T]
}

var _ Subscriber[int] = (*lockingSubscriber[int])(nil)

// NewSubscriber wraps destination into a Subscriber using the default
// (mutex-guarded) concurrency mode. If destination is already a
// Subscriber, it is returned unchanged. Safe for concurrent use.
func NewSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSafeSubscriber(destination)
}

// NewSafeSubscriber wraps destination with a real mutex: concurrent Next
// calls block and wait their turn rather than racing or being dropped.
func NewSafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeSafe)
}

// NewUnsafeSubscriber wraps destination with no locking at all. Only safe
// when the caller already guarantees single-threaded delivery.
func NewUnsafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeUnsafe)
}

// NewEventuallySafeSubscriber wraps destination with a real mutex, but a
// concurrent Next that loses the race is dropped instead of blocked.
func NewEventuallySafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeEventuallySafe)
}

// NewSubscriberWithConcurrencyMode wraps destination, choosing the lock
// strategy and backpressure behavior from mode explicitly.
func NewSubscriberWithConcurrencyMode[T any](destination Observer[T], mode ConcurrencyMode) Subscriber[T] {
	// A spinlock is deliberately not offered here: it is too slow once operators
	// start chaining. Reserve spinlocks for short-lived, strictly local critical sections.
	switch mode {
	case ConcurrencyModeSafe:
		return newLockingSubscriber(mode, xsync.NewMutexWithLock(), BackpressureBlock, destination)
	case ConcurrencyModeUnsafe:
		return newLockingSubscriber(mode, xsync.NewMutexWithoutLock(), BackpressureBlock, destination)
	case ConcurrencyModeEventuallySafe:
		return newLockingSubscriber(mode, xsync.NewMutexWithLock(), BackpressureDrop, destination)
	default:
		panic("reactor: invalid concurrency mode")
	}
}

// newLockingSubscriber builds a Subscriber around destination, or returns
// destination as-is if it is already a Subscriber (never double-wrap).
func newLockingSubscriber[T any](mode ConcurrencyMode, mu xsync.Mutex, backpressure Backpressure, destination Observer[T]) Subscriber[T] {
	if already, ok := destination.(Subscriber[T]); ok {
		return already
	}

	subscriber := &lockingSubscriber[T]{
		Subscription: NewSubscription(nil),
		destination:  destination,
		mode:         mode,
		mu:           mu,
		backpressure: backpressure,
		state:        observerActive,
	}

	if subscription, ok := destination.(Subscription); ok {
		subscription.Add(subscriber.Unsubscribe)
	}

	return subscriber
}

// lockingSubscriber is the Subscriber built around every plain Observer.
// It serializes delivery through mu and latches terminal state into an
// atomic int32 so IsClosed/HasThrown/IsCompleted never need the lock —
// taking it there would deadlock an Observer that calls one of them
// synchronously from inside its own Next/Error/Complete.
type lockingSubscriber[T any] struct {
	Subscription
	destination Observer[T]

	// Mutexes beat channels here by a wide margin; see subscriber_test.go
	// benchmarks. A lock-free rewrite (message-drop instead of backpressure)
	// would only be worth it for a hard real-time delivery path.
	mode         ConcurrencyMode
	mu           xsync.Mutex
	backpressure Backpressure

	state int32 // observerActive / observerErrored / observerCompleted
}

func (s *lockingSubscriber[T]) Next(v T) {
	s.NextWithContext(context.Background(), v)
}

func (s *lockingSubscriber[T]) NextWithContext(ctx context.Context, v T) {
	if s.destination == nil {
		return
	}

	if s.backpressure == BackpressureDrop {
		if !s.mu.TryLock() {
			OnDroppedNotification(ctx, NewNotificationNext(v))

			return
		}
	} else {
		s.mu.Lock()
	}

	if atomic.LoadInt32(&s.state) == observerActive {
		s.destination.NextWithContext(ctx, v)
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(v))
	}

	s.mu.Unlock()
}

func (s *lockingSubscriber[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *lockingSubscriber[T]) ErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()

	if atomic.CompareAndSwapInt32(&s.state, observerActive, observerErrored) {
		if s.destination != nil {
			s.destination.ErrorWithContext(ctx, err)
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
	}

	s.mu.Unlock()

	s.detach()
}

func (s *lockingSubscriber[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *lockingSubscriber[T]) CompleteWithContext(ctx context.Context) {
	s.mu.Lock()

	if atomic.CompareAndSwapInt32(&s.state, observerActive, observerCompleted) {
		if s.destination != nil {
			s.destination.CompleteWithContext(ctx)
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
	}

	s.mu.Unlock()

	s.detach()
}

func (s *lockingSubscriber[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.state) != observerActive
}

func (s *lockingSubscriber[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.state) == observerErrored
}

func (s *lockingSubscriber[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.state) == observerCompleted
}

func (s *lockingSubscriber[T]) Unsubscribe() {
	if atomic.CompareAndSwapInt32(&s.state, observerActive, observerCompleted) {
		s.detach()
	}
}

// detach runs the embedded Subscription's teardowns. Subscription.Unsubscribe
// is already safe against concurrent/repeat calls.
func (s *lockingSubscriber[T]) detach() {
	s.Subscription.Unsubscribe()
}
