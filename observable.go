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

// Backpressure is a type that represents the backpressure strategy to use.
type Backpressure int8

const (
	// BackpressureBlock blocks the source observable when the destination is not ready to receive more values.
	BackpressureBlock Backpressure = iota
	// BackpressureDrop drops the source observable when the destination is not ready to receive more values.
	BackpressureDrop
)

// ConcurrencyMode is a type that represents the concurrency mode to use.
type ConcurrencyMode int8

// ConcurrencyModeSafe is a concurrency mode that is safe to use.
// Spinlock is ignored because it is too slow when chaining operators. Spinlock should be used
// only for short-lived local locks.
const (
	ConcurrencyModeSafe ConcurrencyMode = iota
	ConcurrencyModeUnsafe
	ConcurrencyModeEventuallySafe
)

// Observable is a factory for streams: calling Subscribe attaches an
// Observer and may start emitting items to it immediately or later.
// Each subscription may deliver any number of Next items (including
// zero), then at most one of Error or Complete — never both, and
// nothing more afterward. Calls to the Observer may land synchronously
// or asynchronously with respect to Subscribe.
type Observable[T any] interface {
	// Subscribe attaches destination and returns a Subscription that can
	// cancel it. If the returned Subscription is already closed by the
	// time Subscribe returns, its Teardown is not invoked. Concurrency
	// and synchronization of delivered signals is destination's concern.
	Subscribe(destination Observer[T]) Subscription
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription
}

var _ Observable[int] = (*funcObservable[int])(nil)

// NewObservable builds an Observable from a subscribe function: called
// once per Subscribe with the attached Observer, it should return a
// Teardown (or nil) to run on unsubscription. Equivalent to
// NewSafeObservable.
func NewObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewSafeObservable(subscribe)
}

// NewSafeObservable is NewObservable with ConcurrencyModeSafe: concurrent
// signal delivery is serialized behind a real mutex.
func NewSafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropContext(subscribe), ConcurrencyModeSafe)
}

// NewUnsafeObservable is NewObservable with ConcurrencyModeUnsafe: no
// locking at all, valid only when the subscribe function never delivers
// concurrently.
func NewUnsafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropContext(subscribe), ConcurrencyModeUnsafe)
}

// NewEventuallySafeObservable is NewObservable with
// ConcurrencyModeEventuallySafe: a concurrent signal that loses the race
// is dropped instead of blocked.
func NewEventuallySafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropContext(subscribe), ConcurrencyModeEventuallySafe)
}

// dropContext adapts a context-less subscribe function to the
// context-carrying shape NewObservableWithConcurrencyMode expects.
func dropContext[T any](subscribe func(destination Observer[T]) Teardown) func(context.Context, Observer[T]) Teardown {
	return func(_ context.Context, destination Observer[T]) Teardown {
		return subscribe(destination)
	}
}

// NewObservableWithContext is NewObservable with a subscribe function that
// also receives the Subscribe call's context. Equivalent to
// NewSafeObservableWithContext.
func NewObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewSafeObservableWithContext(subscribe)
}

// NewSafeObservableWithContext is NewObservableWithContext with
// ConcurrencyModeSafe.
func NewSafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewUnsafeObservableWithContext is NewObservableWithContext with
// ConcurrencyModeUnsafe.
func NewUnsafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeUnsafe)
}

// NewEventuallySafeObservableWithContext is NewObservableWithContext with
// ConcurrencyModeEventuallySafe.
func NewEventuallySafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeEventuallySafe)
}

// NewObservableWithConcurrencyMode builds an Observable whose every
// subscription wraps destination according to mode before running
// subscribe. Rarely used directly — prefer one of the Safe/Unsafe/
// EventuallySafe constructors above.
func NewObservableWithConcurrencyMode[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown, mode ConcurrencyMode) Observable[T] {
	return &funcObservable[T]{
		mode:      mode,
		subscribe: subscribe,
	}
}

// funcObservable is the concrete Observable backing every NewObservable*
// constructor: a single subscribe closure plus the concurrency mode used
// to wrap each subscriber.
type funcObservable[T any] struct {
	mode      ConcurrencyMode
	subscribe func(ctx context.Context, destination Observer[T]) Teardown
}

func (s *funcObservable[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *funcObservable[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriberWithConcurrencyMode(destination, s.mode)

	lo.TryCatchWithErrorValue(
		func() error {
			// subscribe's Teardown return is added under the same panic guard;
			// a panicking Add is treated like a panicking subscribe itself.
			subscriber.Add(s.subscribe(ctx, subscriber))

			return nil
		},
		func(recovered any) {
			subscriber.ErrorWithContext(ctx, newObservableError(recoverValueToError(recovered)))
			subscriber.Unsubscribe()
		},
	)

	return subscriber
}

// Collect collects all values emitted by the source Observable and returns them
// as a slice. It waits for the source Observable to complete before returning.
// If the source Observable emits an error, the error is returned along with the
// values collected so far.
func Collect[T any](obs Observable[T]) ([]T, error) {
	v, _, err := CollectWithContext(context.Background(), obs)
	return v, err
}

// CollectWithContext collects all values emitted by the source Observable and returns them
// as a slice. It waits for the source Observable to complete before returning.
// If the source Observable emits an error, the error is returned along with the
// values collected so far.
// @TODO: return more values, such as (isCanceled bool) or (duration time.Duration) ?
func CollectWithContext[T any](ctx context.Context, obs Observable[T]) ([]T, context.Context, error) {
	values := []T{}

	var lastCtx context.Context
	var err error

	sub := obs.SubscribeWithContext(
		ctx,
		NewObserverWithContext(
			func(ctx context.Context, value T) {
				values = append(values, value)
			},
			func(ctx context.Context, thrown error) {
				err = thrown
				lastCtx = ctx
			},
			func(ctx context.Context) {
				lastCtx = ctx
			},
		),
	)

	sub.Wait() // Note: using .Wait() is not recommended.

	return values, lastCtx, err
}

// ConnectableObservable lets several Observers share one upstream
// subscription: subscribing attaches to an internal Subject, and nothing
// flows from the real source until Connect is called.
type ConnectableObservable[T any] interface {
	Observable[T]

	// Connect subscribes the underlying source and starts forwarding its
	// signals to the internal Subject (and so to every attached Observer).
	// Calling Connect again while that connection is still open returns the
	// same Subscription instead of subscribing the source a second time.
	Connect() Subscription
	ConnectWithContext(ctx context.Context) Subscription
}

var (
	_ ConnectableObservable[int] = (*multicastConnectable[int])(nil)
	_ Observable[int]            = (*multicastConnectable[int])(nil)
)

// ConnectableConfig configures a ConnectableObservable's internal Subject
// and its behavior across a disconnect/reconnect cycle.
type ConnectableConfig[T any] struct {
	Connector         func() Subject[T]
	ResetOnDisconnect bool
}

func defaultConnector[T any]() Subject[T] {
	return NewPublishSubject[T]()
}

// defaultConnectableConfig is ConnectableConfig{Connector: PublishSubject,
// ResetOnDisconnect: true} — the config behind every constructor that
// doesn't take one explicitly.
func defaultConnectableConfig[T any]() ConnectableConfig[T] {
	return ConnectableConfig[T]{Connector: defaultConnector[T], ResetOnDisconnect: true}
}

// NewConnectableObservable builds a ConnectableObservable around a
// subscribe function, using defaultConnectableConfig.
func NewConnectableObservable[T any](subscribe func(destination Observer[T]) Teardown) ConnectableObservable[T] {
	return newMulticastConnectable(NewObservable(subscribe), defaultConnectableConfig[T]())
}

// NewConnectableObservableWithContext is NewConnectableObservable with a
// context-carrying subscribe function.
func NewConnectableObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) ConnectableObservable[T] {
	return newMulticastConnectable(NewObservableWithContext(subscribe), defaultConnectableConfig[T]())
}

// NewConnectableObservableWithConfig is NewConnectableObservable with an
// explicit ConnectableConfig instead of the default PublishSubject/reset
// behavior.
func NewConnectableObservableWithConfig[T any](subscribe func(destination Observer[T]) Teardown, config ConnectableConfig[T]) ConnectableObservable[T] {
	return newMulticastConnectable(NewObservable(subscribe), config)
}

// NewConnectableObservableWithConfigAndContext combines
// NewConnectableObservableWithContext and NewConnectableObservableWithConfig.
func NewConnectableObservableWithConfigAndContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown, config ConnectableConfig[T]) ConnectableObservable[T] {
	return newMulticastConnectable(NewObservableWithContext(subscribe), config)
}

// Connectable wraps an existing Observable into a ConnectableObservable
// using defaultConnectableConfig.
func Connectable[T any](source Observable[T]) ConnectableObservable[T] {
	return newMulticastConnectable(source, defaultConnectableConfig[T]())
}

// ConnectableWithConfig is Connectable with an explicit ConnectableConfig.
func ConnectableWithConfig[T any](source Observable[T], config ConnectableConfig[T]) ConnectableObservable[T] {
	return newMulticastConnectable(source, config)
}

func newMulticastConnectable[T any](source Observable[T], config ConnectableConfig[T]) ConnectableObservable[T] {
	if config.Connector == nil {
		panic(ErrConnectableObservableMissingConnectorFactory)
	}

	return &multicastConnectable[T]{
		config:  config,
		source:  source,
		subject: config.Connector(),
	}
}

// multicastConnectable is the concrete ConnectableObservable: every
// Subscribe attaches to subject, and Connect is the only thing that ever
// subscribes source.
type multicastConnectable[T any] struct {
	mu         sync.Mutex
	config     ConnectableConfig[T]
	source     Observable[T]
	subject    Subject[T]
	connection Subscription
}

func (s *multicastConnectable[T]) Connect() Subscription {
	return s.ConnectWithContext(context.Background())
}

func (s *multicastConnectable[T]) ConnectWithContext(ctx context.Context) Subscription {
	s.mu.Lock()

	if s.connection != nil && !s.connection.IsClosed() {
		defer s.mu.Unlock()

		return s.connection
	}

	s.connection = s.source.SubscribeWithContext(ctx, s.subject)
	s.mu.Unlock()

	s.connection.Add(func() {
		if s.config.ResetOnDisconnect {
			s.subject = s.config.Connector()
		}
	})

	return s.connection
}

func (s *multicastConnectable[T]) Subscribe(observer Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), observer)
}

func (s *multicastConnectable[T]) SubscribeWithContext(ctx context.Context, observer Observer[T]) Subscription {
	return s.subject.SubscribeWithContext(ctx, observer)
}
