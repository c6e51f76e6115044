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

// ReplaySubjectUnlimitedBufferSize disables the replay buffer's trimming, so
// every value ever pushed is kept and replayed to new subscribers.
const ReplaySubjectUnlimitedBufferSize = -1

var _ Subject[int] = (*replaySubject[int])(nil)

// NewReplaySubject replays everything in its buffer (up to bufferSize past
// values, oldest dropped first) to every new subscriber before switching it
// to live delivery. A subscription arriving after Error/Complete still gets
// the buffer, followed by the terminal signal. Pass
// ReplaySubjectUnlimitedBufferSize to never trim the buffer.
func NewReplaySubject[T any](bufferSize int) Subject[T] {
	return &replaySubject[T]{
		status:     KindNext,
		bufferSize: bufferSize,
	}
}

type replaySubject[T any] struct {
	observerRegistry[T]

	mu     sync.Mutex
	status Kind

	err        lo.Tuple2[context.Context, error]
	values     []lo.Tuple2[context.Context, T]
	bufferSize int
}

func (s *replaySubject[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *replaySubject[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.values {
		subscription.NextWithContext(v.A, v.B)
	}

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

func (s *replaySubject[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *replaySubject[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.status == KindNext {
		s.broadcastNext(ctx, value)

		s.values = append(s.values, lo.T2(ctx, value))
		if s.bufferSize != ReplaySubjectUnlimitedBufferSize && len(s.values) > s.bufferSize {
			OnDroppedNotification(ctx, NewNotificationNext(s.values[0].B))
			s.values = s.values[len(s.values)-s.bufferSize:]
		}
	} else {
		OnDroppedNotification(ctx, NewNotificationNext(value))
	}

	s.mu.Unlock()
}

func (s *replaySubject[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *replaySubject[T]) ErrorWithContext(ctx context.Context, err error) {
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

func (s *replaySubject[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *replaySubject[T]) CompleteWithContext(ctx context.Context) {
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

func (s *replaySubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status != KindNext
}

func (s *replaySubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindError
}

func (s *replaySubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == KindComplete
}

func (s *replaySubject[T]) AsObservable() Observable[T] {
	return s
}

func (s *replaySubject[T]) AsObserver() Observer[T] {
	return s
}
