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

// Package schedule places work on threads. A Scheduler creates Workers;
// a Worker runs tasks immediately, after a delay, or periodically, and
// disposing a Worker cancels every task it has not yet run.
package schedule

import (
	"errors"
	"time"
)

// ErrUnsupportedOperation is the panic value of schedulers that cannot honor a
// delayed or periodic schedule request (currently only Immediate).
var ErrUnsupportedOperation = errors.New("schedule: operation not supported by this scheduler")

// Disposable is a cancellation handle for a single scheduled task or for
// a Worker itself. Dispose is idempotent.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

var _ Disposable = noopDisposable{}

type noopDisposable struct{}

func (noopDisposable) Dispose()          {}
func (noopDisposable) IsDisposed() bool  { return true }

// Disposed returns an already-disposed Disposable, handed back by a
// disposed Worker in place of running the task.
func Disposed() Disposable {
	return noopDisposable{}
}

// Scheduler places work on one or more underlying threads. Implementations
// are safe for concurrent use.
type Scheduler interface {
	// Schedule runs task as soon as a thread is available.
	Schedule(task func()) Disposable
	// ScheduleWithDelay runs task after delay elapses.
	ScheduleWithDelay(task func(), delay time.Duration) Disposable
	// SchedulePeriodic runs task after initial, then every period until disposed.
	SchedulePeriodic(task func(), initial, period time.Duration) Disposable
	// Worker creates a new Worker scoped to this Scheduler. Callers should
	// dispose the Worker once its chain of scheduled tasks is no longer needed.
	Worker() Worker
}

// Worker is a scoped handle on a Scheduler: every task scheduled through a
// single Worker is cancelled when that Worker is disposed, independently of
// any other Worker created from the same Scheduler.
type Worker interface {
	Disposable

	Schedule(task func()) Disposable
	ScheduleWithDelay(task func(), delay time.Duration) Disposable
	SchedulePeriodic(task func(), initial, period time.Duration) Disposable
}
