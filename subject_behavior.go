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

	"github.com/samber/lo"
)

var _ Subject[int] = (*behaviorSubject[int])(nil)

// NewBehaviorSubject replays its current value to every new subscriber —
// starting with initial, then whatever the last Next delivered. A
// subscription arriving after Error/Complete does not see the last value,
// only the terminal signal itself.
func NewBehaviorSubject[T any](initial T) Subject[T] {
	return &behaviorSubject[T]{
		status: KindNext,
		last:   lo.T2(context.TODO(), initial),
	}
}

type behaviorSubject[T any] struct {
	observerRegistry[T]

	mu     sync.Mutex // an RWMutex would read better, but benchmarks show it's slower under high subject volume
	status Kind

	last lo.Tuple2[context.Context, T]
	err  lo.Tuple2[context.Context, error]
}

func (s *behaviorSubject[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *behaviorSubject[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case KindError:
		subscription.ErrorWithContext(s.err.A, s.err.B)

		return subscription
	case KindComplete:
		subscription.CompleteWithContext(subscriberCtx)

		return subscription
	case KindNext:
	}

	// Whether the replayed value should carry subscriberCtx or the context it
	// was recorded under (last.A, possibly context.TODO() if Next never fired)
	// is genuinely ambiguous; we keep the recorded one.
	subscription.NextWithContext(s.last.A, s.last.B)
	s.attach(subscription, subscription)

	return subscription
}

func (s *behaviorSubject[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *behaviorSubject[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.status == KindNext {
		s.last = lo.T2(ctx, value)
		s.broadcastNext(ctx, value)
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(value))
	}

	s.mu.Unlock()
}

func (s *behaviorSubject[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *behaviorSubject[T]) ErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()

	if s.status == KindNext {
		s.err = lo.T2(ctx, err)
		s.status = KindError
		s.broadcastError(ctx, err)
	} else {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
	}

	s.mu.Unlock()
	s.detachAll()
}

func (s *behaviorSubject[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *behaviorSubject[T]) CompleteWithContext(ctx context.Context) {
	s.mu.Lock()

	if s.status == KindNext {
		s.status = KindComplete
		s.broadcastComplete(ctx)
	} else {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
	}

	s.mu.Unlock()
	s.detachAll()
}

func (s *behaviorSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status != KindNext
}

func (s *behaviorSubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindError
}

func (s *behaviorSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindComplete
}

func (s *behaviorSubject[T]) AsObservable() Observable[T] {
	return s
}

func (s *behaviorSubject[T]) AsObserver() Observer[T] {
	return s
}
