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

// UnicastSubjectUnlimitedBufferSize disables the buffer's trimming for a NewUnicastSubject with no attached Observer yet.
const UnicastSubjectUnlimitedBufferSize = -1

var _ Subject[int] = (*unicastSubject[int])(nil)

// NewUnicastSubject queues up events until a single Observer subscribes to it,
// replays those events to it until the Observer catches up and then switches
// to relaying events live to this single Observer.
func NewUnicastSubject[T any](bufferSize int) Subject[T] {
	return &unicastSubject[T]{
		mu:     sync.Mutex{},
		status: KindNext,

		observer: nil,

		err:        lo.Tuple2[context.Context, error]{},
		values:     []lo.Tuple2[context.Context, T]{},
		bufferSize: bufferSize,
	}
}

type unicastSubject[T any] struct {
	mu     sync.Mutex // sync.RWMutex would be better, but it is too slow for high-volume subjects
	status Kind

	observer Observer[T]

	err        lo.Tuple2[context.Context, error]
	values     []lo.Tuple2[context.Context, T]
	bufferSize int
}

func (s *unicastSubject[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *unicastSubject[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case KindNext:
		// fallthrough
	case KindError:
		subscription.ErrorWithContext(s.err.A, s.err.B)
		return subscription
	case KindComplete:
		subscription.CompleteWithContext(subscriberCtx)
		return subscription
	}

	if s.observer != nil {
		subscription.ErrorWithContext(subscriberCtx, ErrUnicastSubjectConcurrent)
		return subscription
	}

	for _, v := range s.values {
		subscription.NextWithContext(v.A, v.B)
	}

	s.values = []lo.Tuple2[context.Context, T]{}

	s.observer = subscription

	subscription.Add(func() {
		s.mu.Lock()
		s.observer = nil
		s.mu.Unlock()
	})

	return subscription
}

func (s *unicastSubject[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *unicastSubject[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.status == KindNext { //nolint:nestif
		if s.observer != nil {
			tmp := s.observer
			defer tmp.NextWithContext(ctx, value) // out of lock
		} else {
			s.values = append(s.values, lo.T2(ctx, value))
			if s.bufferSize != UnicastSubjectUnlimitedBufferSize && len(s.values) > s.bufferSize {
				OnDroppedNotification(ctx, NewNotificationNext(s.values[0].B))
				s.values = s.values[len(s.values)-s.bufferSize:]
			}
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(value))
	}

	s.mu.Unlock()
}

func (s *unicastSubject[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *unicastSubject[T]) ErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()

	if s.status == KindNext {
		s.err = lo.T2(ctx, err)
		s.status = KindError

		if s.observer != nil {
			tmp := s.observer
			s.observer = nil

			defer tmp.ErrorWithContext(ctx, err)
		} else {
			OnDroppedNotification(ctx, NewNotificationError[T](err))
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
	}

	s.mu.Unlock()
}

func (s *unicastSubject[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *unicastSubject[T]) CompleteWithContext(ctx context.Context) {
	s.mu.Lock()

	if s.status == KindNext {
		s.status = KindComplete

		if s.observer != nil {
			tmp := s.observer
			s.observer = nil

			defer tmp.CompleteWithContext(ctx)
		} else {
			OnDroppedNotification(ctx, NewNotificationComplete[T]())
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
	}

	s.mu.Unlock()
}

func (s *unicastSubject[T]) HasObserver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.observer != nil
}

func (s *unicastSubject[T]) CountObservers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.observer != nil {
		return 1
	}

	return 0
}

func (s *unicastSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status != KindNext
}

func (s *unicastSubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindError
}

func (s *unicastSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindComplete
}

func (s *unicastSubject[T]) AsObservable() Observable[T] {
	return s
}

func (s *unicastSubject[T]) AsObserver() Observer[T] {
	return s
}
