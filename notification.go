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
)

// Kind tags a reified Notification as one of the three signals an Observer
// can receive: Next, Error, or Complete.
type Kind uint8

// Kind values, in signal order.
const (
	KindNext Kind = iota
	KindError
	KindComplete
)

// IsTerminal reports whether k ends a subscription (Error or Complete).
func (k Kind) IsTerminal() bool {
	return k == KindError || k == KindComplete
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next"
	case KindError:
		return "Error"
	case KindComplete:
		return "Complete"
	default:
		panic(fmt.Sprintf("reactor: unknown notification kind %d", uint8(k)))
	}
}

// Notification reifies one of the three signals an Observer may receive
// into a single value, so a stream of signals can itself be carried as data
// (used by Materialize/Dematerialize and the replay buffer).
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// String implements fmt.Stringer.
func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("Next(%+v)", n.Value)
	case KindError:
		if n.Err == nil {
			return "Error(nil)"
		}

		return fmt.Sprintf("Error(%s)", n.Err.Error())
	case KindComplete:
		return "Complete()"
	default:
		panic(fmt.Sprintf("reactor: unknown notification kind %d", uint8(n.Kind)))
	}
}

// NewNotificationNext reifies a Next(value) signal.
func NewNotificationNext[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

// NewNotificationError reifies an Error(err) signal.
func NewNotificationError[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// NewNotificationComplete reifies a Complete() signal.
func NewNotificationComplete[T any]() Notification[T] {
	return Notification[T]{Kind: KindComplete}
}

// dispatchSignal replays n into the matching callback and reports whether
// the stream continues (true for Next, false for a terminal signal).
func dispatchSignal[T any](n Notification[T], onNext func(T), onError func(error), onComplete func()) bool {
	switch n.Kind {
	case KindNext:
		onNext(n.Value)
	case KindError:
		onError(n.Err)
	case KindComplete:
		onComplete()
	default:
		panic(fmt.Sprintf("reactor: unknown notification kind %d", uint8(n.Kind)))
	}

	return !n.Kind.IsTerminal()
}

// dispatchSignalWithContext is dispatchSignal for context-aware callbacks.
func dispatchSignalWithContext[T any](ctx context.Context, n Notification[T], onNext func(context.Context, T), onError func(context.Context, error), onComplete func(context.Context)) bool {
	switch n.Kind {
	case KindNext:
		onNext(ctx, n.Value)
	case KindError:
		onError(ctx, n.Err)
	case KindComplete:
		onComplete(ctx)
	default:
		panic(fmt.Sprintf("reactor: unknown notification kind %d", uint8(n.Kind)))
	}

	return !n.Kind.IsTerminal()
}

// dispatchSignalToObserver replays n onto destination using the background
// context.
func dispatchSignalToObserver[T any](n Notification[T], destination Observer[T]) bool {
	return dispatchSignalWithContext(context.Background(), n, destination.NextWithContext, destination.ErrorWithContext, destination.CompleteWithContext)
}

// dispatchSignalToObserverWithContext replays n onto destination under ctx.
func dispatchSignalToObserverWithContext[T any](ctx context.Context, n Notification[T], destination Observer[T]) bool {
	return dispatchSignalWithContext(ctx, n, destination.NextWithContext, destination.ErrorWithContext, destination.CompleteWithContext)
}
