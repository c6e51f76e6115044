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

var _ Subject[int] = (*publishSubject[int])(nil)

// NewPublishSubject multicasts live: a subscriber only sees values pushed
// after it attaches, nothing recorded before it arrived. This is the
// default connector behind Connectable and NewSubject.
func NewPublishSubject[T any]() Subject[T] {
	return &publishSubject[T]{}
}

type publishSubject[T any] struct {
	observerRegistry[T]

	mu     sync.Mutex
	status Kind

	err lo.Tuple2[context.Context, error]
}

func (s *publishSubject[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *publishSubject[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
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

	s.attach(subscription, subscription)

	return subscription
}

func (s *publishSubject[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *publishSubject[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.status == KindNext {
		s.broadcastNext(ctx, value)
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(value))
	}

	s.mu.Unlock()
}

func (s *publishSubject[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *publishSubject[T]) ErrorWithContext(ctx context.Context, err error) {
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

func (s *publishSubject[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *publishSubject[T]) CompleteWithContext(ctx context.Context) {
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

func (s *publishSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status != KindNext
}

func (s *publishSubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindError
}

func (s *publishSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindComplete
}

func (s *publishSubject[T]) AsObservable() Observable[T] {
	return s
}

func (s *publishSubject[T]) AsObserver() Observer[T] {
	return s
}
