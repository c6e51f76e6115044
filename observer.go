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
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
)

// Observer consumes the three signals an Observable may produce: Next
// (zero or more), then at most one of Error or Complete. Every method is
// safe for concurrent use; an Observer is responsible for dropping any
// signal delivered after it has already closed.
type Observer[T any] interface {
	// Next delivers the next value. May be called any number of times
	// before a terminal signal, synchronously or asynchronously. Delivered
	// after close, the value is dropped.
	Next(value T)
	NextWithContext(ctx context.Context, value T)
	// Error delivers a terminal failure. Called at most once. Delivered
	// after close, the error is dropped.
	Error(err error)
	ErrorWithContext(ctx context.Context, err error)
	// Complete delivers normal termination. Called at most once. Delivered
	// after close, it is dropped.
	Complete()
	CompleteWithContext(ctx context.Context)

	// IsClosed reports whether a terminal signal has already landed.
	IsClosed() bool
	// HasThrown reports whether the terminal signal was an Error.
	HasThrown() bool
	// IsCompleted reports whether the terminal signal was a Complete.
	IsCompleted() bool
}

// observerState values for callbackObserver.state.
const (
	observerActive int32 = iota
	observerErrored
	observerCompleted
)

var _ Observer[int] = (*callbackObserver[int])(nil)

// NewObserver builds an Observer from plain callbacks, invoked without a
// context (each call receives context.Background()).
func NewObserver[T any](onNext func(value T), onError func(err error), onComplete func()) Observer[T] {
	return &callbackObserver[T]{
		onNext:     func(_ context.Context, value T) { onNext(value) },
		onError:    func(_ context.Context, err error) { onError(err) },
		onComplete: func(context.Context) { onComplete() },
	}
}

// NewObserverWithContext builds an Observer whose callbacks each receive
// the context passed to the triggering *WithContext call.
func NewObserverWithContext[T any](onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) Observer[T] {
	return &callbackObserver[T]{
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
}

// callbackObserver is the concrete Observer built from three callbacks
// plus an atomic latch that guarantees Error/Complete fire at most once
// and that nothing lands after either does.
type callbackObserver[T any] struct {
	state      int32
	onNext     func(context.Context, T)
	onError    func(context.Context, error)
	onComplete func(context.Context)
}

func (o *callbackObserver[T]) Next(value T) {
	o.NextWithContext(context.Background(), value)
}

func (o *callbackObserver[T]) NextWithContext(ctx context.Context, value T) {
	if o.onNext == nil || atomic.LoadInt32(&o.state) != observerActive {
		OnDroppedNotification(ctx, NewNotificationNext(value))

		return
	}

	o.dispatchNext(ctx, value)
}

func (o *callbackObserver[T]) Error(err error) {
	o.ErrorWithContext(context.Background(), err)
}

func (o *callbackObserver[T]) ErrorWithContext(ctx context.Context, err error) {
	if o.onError == nil || !atomic.CompareAndSwapInt32(&o.state, observerActive, observerErrored) {
		OnDroppedNotification(ctx, NewNotificationError[T](err))

		return
	}

	o.dispatchError(ctx, err)
}

func (o *callbackObserver[T]) Complete() {
	o.CompleteWithContext(context.Background())
}

func (o *callbackObserver[T]) CompleteWithContext(ctx context.Context) {
	if o.onComplete == nil || !atomic.CompareAndSwapInt32(&o.state, observerActive, observerCompleted) {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())

		return
	}

	o.dispatchComplete(ctx)
}

// dispatchNext runs onNext, routing a panic to onError (or to the global
// unhandled-error hook if there is no onError to catch it).
func (o *callbackObserver[T]) dispatchNext(ctx context.Context, value T) {
	lo.TryCatchWithErrorValue(
		func() error {
			o.onNext(ctx, value)

			return nil
		},
		func(recovered any) {
			err := newObserverError(recoverValueToError(recovered))

			if o.onError == nil {
				OnUnhandledError(ctx, err)
			} else {
				o.dispatchError(ctx, err)
			}
		},
	)
}

// dispatchError runs onError, routing a panic to the global unhandled-error
// hook (there is no further callback left to hand it to).
func (o *callbackObserver[T]) dispatchError(ctx context.Context, err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			o.onError(ctx, err)

			return nil
		},
		func(recovered any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(recovered)))
		},
	)
}

// dispatchComplete runs onComplete, routing a panic to the global
// unhandled-error hook.
func (o *callbackObserver[T]) dispatchComplete(ctx context.Context) {
	lo.TryCatchWithErrorValue(
		func() error {
			o.onComplete(ctx)

			return nil
		},
		func(recovered any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(recovered)))
		},
	)
}

func (o *callbackObserver[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.state) != observerActive
}

func (o *callbackObserver[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.state) == observerErrored
}

func (o *callbackObserver[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.state) == observerCompleted
}

// OnNext builds an Observer that only reacts to Next; Error and Complete
// are silently swallowed.
func OnNext[T any](onNext func(value T)) Observer[T] {
	return NewObserver(onNext, func(error) {}, func() {})
}

// OnNextWithContext is OnNext with a context-carrying callback.
func OnNextWithContext[T any](onNext func(ctx context.Context, value T)) Observer[T] {
	return NewObserverWithContext(onNext, func(context.Context, error) {}, func(context.Context) {})
}

// OnError builds an Observer that only reacts to Error.
func OnError[T any](onError func(err error)) Observer[T] {
	return NewObserver(func(T) {}, onError, func() {})
}

// OnErrorWithContext is OnError with a context-carrying callback.
func OnErrorWithContext[T any](onError func(ctx context.Context, err error)) Observer[T] {
	return NewObserverWithContext(func(context.Context, T) {}, onError, func(context.Context) {})
}

// OnComplete builds an Observer that only reacts to Complete; errors are
// silently swallowed.
func OnComplete[T any](onComplete func()) Observer[T] {
	return NewObserver(func(T) {}, func(error) {}, onComplete)
}

// OnCompleteWithContext is OnComplete with a context-carrying callback.
func OnCompleteWithContext[T any](onComplete func(ctx context.Context)) Observer[T] {
	return NewObserverWithContext(func(context.Context, T) {}, func(context.Context, error) {}, onComplete)
}

// NoopObserver discards every signal it receives, including errors.
func NoopObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		func(context.Context, error) {},
		func(context.Context) {},
	)
}

// PrintObserver dumps every signal it receives to stdout; useful for
// debugging a pipeline interactively.
func PrintObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(_ context.Context, value T) {
			fmt.Printf("Next: %v\n", value)
		},
		func(_ context.Context, err error) {
			fmt.Printf("Error: %s\n", err.Error())
		},
		func(context.Context) {
			fmt.Printf("Completed\n")
		},
	)
}
