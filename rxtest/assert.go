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

package rxtest

import (
	"context"
	"testing"

	"github.com/flowbase/reactor"
	"github.com/samber/lo"
)

// @TODO: Add new methods:
// - ExpectDurationEpsilon
// - ExpectDurationLessThan
// - ExpectDurationGreaterThan
// - ExpectDurationInRange

var _ AssertSpec[int] = (*recordingAssert[int])(nil)

// recordingAssert queues expectations up front (ExpectNext/ExpectError/
// ExpectComplete) and checks each incoming notification against the next
// queued expectation as Verify subscribes and the source emits.
type recordingAssert[T any] struct {
	t      *testing.T
	queue  []expectation[T]
	source reactor.Observable[T]
}

type expectation[T any] struct {
	notification reactor.Notification[T]
	msgAndArgs   []any
}

// Assert creates a new instance of test. It is used to assert the behavior of an
// observable sequence.
//
// Inspired by Flux.
func Assert[T any](t *testing.T) AssertSpec[T] { //nolint:thelper
	return &recordingAssert[T]{t: t}
}

func (t *recordingAssert[T]) popExpectation() (expectation[T], bool) {
	if len(t.queue) == 0 {
		return expectation[T]{}, false
	}

	next := t.queue[0]
	t.queue = t.queue[1:]

	return next, true
}

func (t *recordingAssert[T]) equal(expected, actual any, msgAndArgs ...any) bool {
	if expected == actual {
		return true
	}

	if len(msgAndArgs) > 0 {
		t.t.Errorf(msgAndArgs[0].(string), msgAndArgs[1:]...) //nolint:errcheck,forcetypeassert
	} else {
		t.t.Fail()
	}

	return false
}

func (t *recordingAssert[T]) hasTerminalExpectation() bool {
	_, ok := lo.Find(t.queue, func(e expectation[T]) bool {
		return e.notification.Kind.IsTerminal()
	})

	return ok
}

// Source sets the source observable to test.
func (t *recordingAssert[T]) Source(source reactor.Observable[T]) AssertSpec[T] {
	t.source = source
	return t
}

// ExpectNext expects the next value to be emitted by the source observable.
// It fails the test if the next value is not emitted. If the source observable
// emits an error or completes, it fails the test.
func (t *recordingAssert[T]) ExpectNext(value T, msgAndArgs ...any) AssertSpec[T] {
	t.t.Helper()

	t.queue = append(t.queue, expectation[T]{
		notification: reactor.NewNotificationNext(value),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

// ExpectNextSeq expects the next values to be emitted by the source observable.
// It fails the test if the next values are not emitted. If the source observable
// emits an error or completes, it fails the test.
func (t *recordingAssert[T]) ExpectNextSeq(values ...T) AssertSpec[T] {
	t.t.Helper()

	for i := range values {
		t.queue = append(t.queue, expectation[T]{
			notification: reactor.NewNotificationNext(values[i]),
		})
	}

	return t
}

// ExpectError expects the source observable to emit an error. It fails the test
// if the source observable emits a value or completes. If the source observable
// emits an error, it compares the error with the expected error. If the error
// is not equal to the expected error, it fails the test.
func (t *recordingAssert[T]) ExpectError(err error, msgAndArgs ...any) AssertSpec[T] {
	t.t.Helper()

	if t.hasTerminalExpectation() {
		t.t.Fatal("cannot have multiple error or completion notifications")
	}

	t.queue = append(t.queue, expectation[T]{
		notification: reactor.NewNotificationError[T](err),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

// ExpectComplete expects the source observable to complete. It fails the test
// if the source observable emits a value or an error.
func (t *recordingAssert[T]) ExpectComplete(msgAndArgs ...any) AssertSpec[T] {
	t.t.Helper()

	if t.hasTerminalExpectation() {
		t.t.Fatal("cannot have multiple error or completion notifications")
	}

	t.queue = append(t.queue, expectation[T]{
		notification: reactor.NewNotificationComplete[T](),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

// Verify subscribes to the source observable and verifies the assertions.
// It fails the test if the source observable emits a value, an error, or completes
// before all assertions are verified.
func (t *recordingAssert[T]) Verify() {
	t.t.Helper()

	t.VerifyWithContext(context.Background())
}

// VerifyWithContext subscribes to the source observable and verifies the assertions.
// It fails the test if the source observable emits a value, an error, or completes
// before all assertions are verified.
func (t *recordingAssert[T]) VerifyWithContext(ctx context.Context) {
	t.t.Helper()

	t.source.SubscribeWithContext(
		ctx,
		reactor.NewObserverWithContext(
			func(ctx context.Context, value T) {
				next, ok := t.popExpectation()

				ok = ok && t.equal(reactor.KindNext, next.notification.Kind, "expected '%s' notification, got 'Next'", next.notification.Kind)
				ok = ok && t.equal(next.notification.Value, value, next.msgAndArgs...)
				_ = ok
			},
			func(ctx context.Context, err error) {
				next, ok := t.popExpectation()

				ok = ok && t.equal(reactor.KindError, next.notification.Kind, "expected '%s' notification, got 'Error'", next.notification.Kind)
				ok = ok && t.equal(next.notification.Err, err, next.msgAndArgs...)
				_ = ok
			},
			func(ctx context.Context) {
				next, ok := t.popExpectation()

				ok = ok && t.equal(reactor.KindComplete, next.notification.Kind, "expected '%s' notification, got 'Complete'", next.notification.Kind)
				_ = ok
			},
		),
	)
}
