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

var _ Subject[int] = (*asyncSubject[int])(nil)

// NewAsyncSubject withholds everything until Complete, then emits only the
// last value received (if any) before completing. A subscriber arriving
// after completion gets that same replay, not a live feed.
func NewAsyncSubject[T any]() Subject[T] {
	return &asyncSubject[T]{
		value: lo.T2(context.TODO(), lo.Empty[T]()),
		err:   lo.T2[context.Context, error](context.TODO(), nil),
	}
}

type asyncSubject[T any] struct {
	observerRegistry[T]

	mu     sync.Mutex
	status Kind

	hasValue bool
	value    lo.Tuple2[context.Context, T]
	err      lo.Tuple2[context.Context, error]
}

func (s *asyncSubject[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *asyncSubject[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case KindError:
		subscription.ErrorWithContext(s.err.A, s.err.B)

		return subscription
	case KindComplete:
		if s.hasValue {
			subscription.NextWithContext(s.value.A, s.value.B)
		}

		subscription.CompleteWithContext(subscriberCtx)

		return subscription
	case KindNext:
	}

	s.attach(subscription, subscription)

	return subscription
}

func (s *asyncSubject[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *asyncSubject[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.status == KindNext {
		s.hasValue = true
		s.value = lo.T2(ctx, value) // a replaced value is never forwarded to OnDroppedNotification
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(value))
	}

	s.mu.Unlock()
}

func (s *asyncSubject[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *asyncSubject[T]) ErrorWithContext(ctx context.Context, err error) {
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

func (s *asyncSubject[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *asyncSubject[T]) CompleteWithContext(ctx context.Context) {
	s.mu.Lock()

	if s.status == KindNext {
		s.status = KindComplete
		if s.hasValue {
			s.broadcastNext(s.value.A, s.value.B)
		}

		s.broadcastComplete(ctx)
	} else {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
	}

	s.mu.Unlock()
	s.detachAll()
}

func (s *asyncSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status != KindNext
}

func (s *asyncSubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindError
}

func (s *asyncSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindComplete
}

func (s *asyncSubject[T]) AsObservable() Observable[T] {
	return s
}

func (s *asyncSubject[T]) AsObserver() Observer[T] {
	return s
}
