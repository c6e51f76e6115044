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
	"github.com/flowbase/reactor/schedule"
)

// SubscribeOnScheduler is like SubscribeOn, but runs the upstream subscription
// on the given Scheduler instead of a bare goroutine. This lets the caller
// control (and, via a schedule.TestScheduler, deterministically drive) which
// worker pool the upstream side of the detached pipe runs on.
//
// scheduler must hand tasks off rather than run them inline: the whole point
// of detaching a side onto a Scheduler is that it executes concurrently with
// the other, undetached side. schedule.Immediate() runs Schedule's task on
// the calling goroutine before returning, which would run the upstream
// subscription to completion before downstream ever started draining, so it
// is rejected with ErrDetachOnSchedulerSynchronous.
// Play: https://go.dev/play/p/WrsTUq6yxtO
func SubscribeOnScheduler[T any](scheduler schedule.Scheduler, bufferSize int) func(Observable[T]) Observable[T] {
	if bufferSize <= 0 {
		panic(ErrSubscribeOnWrongBufferSize)
	}
	if schedule.IsSynchronous(scheduler) {
		panic(ErrDetachOnSchedulerSynchronous)
	}

	return detachOnScheduler[T](scheduler, bufferSize, true, false)
}

// ObserveOnScheduler is like ObserveOn, but runs the downstream consumption
// on the given Scheduler instead of a bare goroutine. See SubscribeOnScheduler
// for why scheduler may not run Schedule synchronously.
// Play: https://go.dev/play/p/BpdKJ6Mya03
func ObserveOnScheduler[T any](scheduler schedule.Scheduler, bufferSize int) func(Observable[T]) Observable[T] {
	if bufferSize <= 0 {
		panic(ErrObserveOnWrongBufferSize)
	}
	if schedule.IsSynchronous(scheduler) {
		panic(ErrDetachOnSchedulerSynchronous)
	}

	return detachOnScheduler[T](scheduler, bufferSize, false, true)
}

func detachOnScheduler[T any](scheduler schedule.Scheduler, bufferSize int, onUpstream, onDownstream bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			ch := make(chan lo.Tuple2[context.Context, Notification[T]], bufferSize)

			once := sync.Once{}
			stop := func() {
				once.Do(func() {
					close(ch)
				})
			}

			subscriptions := NewSubscription(nil)

			consumeUpstream := func() {
				subscriptions.AddUnsubscribable(
					source.SubscribeWithContext(
						subscriberCtx,
						NewObserverWithContext(
							func(ctx context.Context, value T) {
								ch <- lo.T2(ctx, NewNotificationNext(value))
							},
							func(ctx context.Context, err error) {
								ch <- lo.T2(ctx, NewNotificationError[T](err))

								stop()
							},
							func(ctx context.Context) {
								ch <- lo.T2(ctx, NewNotificationComplete[T]())

								stop()
							},
						),
					),
				)
			}

			produceDownstream := func() {
				for notification := range ch {
					dispatchSignalWithContext(
						notification.A,
						notification.B,
						destination.NextWithContext,
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					)
				}
			}

			// The scheduled task could be used either on producer or consumer side.
			// 	* ObserveOnScheduler moves it to the consumer side.
			// 	* SubscribeOnScheduler moves it to the producer side.

			var scheduled schedule.Disposable

			switch {
			case onUpstream:
				scheduled = scheduler.Schedule(func() {
					recoverUnhandledError(consumeUpstream)
				})

				produceDownstream()
			case onDownstream:
				scheduled = scheduler.Schedule(func() {
					recoverUnhandledError(produceDownstream)
				})

				consumeUpstream()
			default:
				panic(ErrDetachOnWrongMode)
			}

			return func() {
				subscriptions.Unsubscribe()
				stop()

				if scheduled != nil {
					scheduled.Dispose()
				}
			}
		})
	}
}
