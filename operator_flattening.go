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

//nolint:nestif,funlen,gocyclo
package reactor

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/flowbase/reactor/internal/xatomic"
)

// SwitchAll converts a higher-order Observable into a first-order Observable by
// subscribing to only the most recently emitted inner Observable. Whenever a new
// inner Observable arrives, the previous one is unsubscribed, even if it has not
// completed. It completes once the outer Observable and the last active inner
// Observable have both completed.
func SwitchAll[T any]() func(Observable[Observable[T]]) Observable[T] {
	return func(sources Observable[Observable[T]]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewSubscription(nil)

			var mu sync.Mutex
			var currentInner Subscription
			outerDone := false
			innerActive := false
			generation := 0

			finishIfDone := func(ctx context.Context) {
				mu.Lock()
				done := outerDone && !innerActive
				mu.Unlock()

				if done {
					destination.CompleteWithContext(ctx)
				}
			}

			subscriptions.AddUnsubscribable(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							mu.Lock()
							if currentInner != nil {
								currentInner.Unsubscribe()
							}

							generation++
							myGeneration := generation
							innerActive = true
							mu.Unlock()

							sub := source.SubscribeWithContext(
								ctx,
								NewObserverWithContext(
									destination.NextWithContext,
									destination.ErrorWithContext,
									func(ctx context.Context) {
										mu.Lock()
										isCurrent := myGeneration == generation
										if isCurrent {
											innerActive = false
										}
										mu.Unlock()

										if isCurrent {
											finishIfDone(ctx)
										}
									},
								),
							)

							mu.Lock()
							currentInner = sub
							mu.Unlock()

							subscriptions.AddUnsubscribable(sub)
						},
						destination.ErrorWithContext,
						func(ctx context.Context) {
							mu.Lock()
							outerDone = true
							mu.Unlock()

							finishIfDone(ctx)
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// SwitchMap applies a projection function to each item emitted by the source
// Observable and flattens the result, cancelling the previously projected
// Observable whenever a new item arrives.
func SwitchMap[T, R any](projection func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return SwitchMapIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, Observable[R]) {
		return ctx, projection(item)
	})
}

// SwitchMapWithContext applies a projection function to each item emitted by the
// source Observable and flattens the result, cancelling the previously projected
// Observable whenever a new item arrives.
func SwitchMapWithContext[T, R any](projection func(ctx context.Context, item T) Observable[R]) func(Observable[T]) Observable[R] {
	return SwitchMapIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, Observable[R]) {
		return ctx, projection(ctx, item)
	})
}

// SwitchMapI applies a projection function to each item emitted by the source
// Observable and flattens the result, cancelling the previously projected
// Observable whenever a new item arrives.
func SwitchMapI[T, R any](projection func(item T, index int64) Observable[R]) func(Observable[T]) Observable[R] {
	return SwitchMapIWithContext(func(ctx context.Context, item T, index int64) (context.Context, Observable[R]) {
		return ctx, projection(item, index)
	})
}

// SwitchMapIWithContext applies a projection function to each item emitted by the
// source Observable and flattens the result, cancelling the previously projected
// Observable whenever a new item arrives.
func SwitchMapIWithContext[T, R any](projection func(ctx context.Context, item T, index int64) (context.Context, Observable[R])) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		i := int64(0)

		return SwitchAll[R]()(
			NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[Observable[R]]) Teardown {
				sub := source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							destination.NextWithContext(projection(ctx, value, i))

							i++
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				)

				return sub.Unsubscribe
			}),
		)
	}
}

// MergeMapWithConcurrency applies a projection function to each item emitted by
// the source Observable and merges the results into a single Observable, never
// running more than maxConcurrency projected Observables at once. Items that
// arrive once the limit is reached are projected eagerly and queued, then
// subscribed in arrival order as running inner Observables complete. A
// maxConcurrency of 1 makes this behave like a concatenation: inner Observables
// run strictly one after another, in the order their source items arrived.
func MergeMapWithConcurrency[T, R any](projection func(item T) Observable[R], maxConcurrency int) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		if maxConcurrency <= 0 {
			return MergeMap[T, R](projection)(source)
		}

		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			subscriptions := NewSubscription(nil)

			var mu sync.Mutex
			queue := []Observable[R]{}
			active := 0
			sourceDone := false

			var subscribeInner func(ctx context.Context, inner Observable[R])

			maybeComplete := func(ctx context.Context) {
				mu.Lock()
				done := sourceDone && active == 0 && len(queue) == 0
				mu.Unlock()

				if done {
					destination.CompleteWithContext(ctx)
				}
			}

			onInnerDone := func(ctx context.Context) {
				mu.Lock()
				active--

				var next Observable[R]
				hasNext := len(queue) > 0

				if hasNext {
					next = queue[0]
					queue = queue[1:]
					active++
				}
				mu.Unlock()

				if hasNext {
					subscribeInner(ctx, next)
				} else {
					maybeComplete(ctx)
				}
			}

			subscribeInner = func(ctx context.Context, inner Observable[R]) {
				sub := inner.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						destination.NextWithContext,
						destination.ErrorWithContext,
						onInnerDone,
					),
				)
				subscriptions.AddUnsubscribable(sub)
			}

			subscriptions.AddUnsubscribable(
				source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, item T) {
							inner := projection(item)

							mu.Lock()
							if active < maxConcurrency {
								active++
								mu.Unlock()
								subscribeInner(ctx, inner)
							} else {
								queue = append(queue, inner)
								mu.Unlock()
							}
						},
						destination.ErrorWithContext,
						func(ctx context.Context) {
							mu.Lock()
							sourceDone = true
							mu.Unlock()

							maybeComplete(ctx)
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// ConcatMap applies a projection function to each item emitted by the source
// Observable and concatenates the results, subscribing to the next projected
// Observable only once the previous one has completed. It is equivalent to
// MergeMapWithConcurrency with a concurrency of 1.
func ConcatMap[T, R any](projection func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMapWithConcurrency[T, R](projection, 1)
}

// WithLatestFromWith combines each value from the source Observable with the
// latest value from obsB. It emits nothing until obsB has emitted at least one
// value, and never waits on obsB: only the source Observable's emissions (and
// completion) drive the resulting Observable.
//
// It is a curried function that takes the other Observable as an argument.
func WithLatestFromWith[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return WithLatestFromWith1[A](obsB)
}

// WithLatestFromWith1 combines each value from the source Observable with the
// latest value from obsB. It emits nothing until obsB has emitted at least one
// value, and never waits on obsB: only the source Observable's emissions (and
// completion) drive the resulting Observable.
//
// It is a curried function that takes the other Observable as an argument.
func WithLatestFromWith1[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(obsA Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			var valueB xatomic.Pointer[B]

			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				obsB.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(_ context.Context, v B) {
							valueB.Store(&v)
						},
						destination.ErrorWithContext,
						func(ctx context.Context) {},
					),
				),
			)

			subscriptions.AddUnsubscribable(
				obsA.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, a A) {
							if b := valueB.Load(); b != nil {
								destination.NextWithContext(ctx, lo.T2(a, *b))
							}
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// WithLatestFromWith2 combines each value from the source Observable with the
// latest values from obsB and obsC. It emits nothing until both obsB and obsC
// have each emitted at least one value.
//
// It is a curried function that takes the other Observables as arguments.
func WithLatestFromWith2[A, B, C any](obsB Observable[B], obsC Observable[C]) func(Observable[A]) Observable[lo.Tuple3[A, B, C]] {
	return func(obsA Observable[A]) Observable[lo.Tuple3[A, B, C]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple3[A, B, C]]) Teardown {
			var valueB xatomic.Pointer[B]
			var valueC xatomic.Pointer[C]

			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				obsB.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(_ context.Context, v B) { valueB.Store(&v) },
						destination.ErrorWithContext,
						func(ctx context.Context) {},
					),
				),
			)

			subscriptions.AddUnsubscribable(
				obsC.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(_ context.Context, v C) { valueC.Store(&v) },
						destination.ErrorWithContext,
						func(ctx context.Context) {},
					),
				),
			)

			subscriptions.AddUnsubscribable(
				obsA.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, a A) {
							b := valueB.Load()
							c := valueC.Load()

							if b != nil && c != nil {
								destination.NextWithContext(ctx, lo.T3(a, *b, *c))
							}
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}
