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

package schedule

import (
	"sync/atomic"
	"time"
)

var _ Scheduler = (*immediateScheduler)(nil)

// Immediate runs every task synchronously on the calling goroutine. It does
// not support delayed or periodic scheduling: ScheduleWithDelay and
// SchedulePeriodic panic with ErrUnsupportedOperation, matching the
// immediate scheduler's documented contract.
func Immediate() Scheduler {
	return immediateScheduler{}
}

type immediateScheduler struct{}

// isSynchronous marks schedulers whose Schedule runs the task on the calling
// goroutine before returning, rather than handing it to another thread (or,
// for a TestScheduler, queuing it for a later AdvanceTimeBy). Callers that
// need genuine producer/consumer concurrency between two halves of a pipe
// (SubscribeOnScheduler, ObserveOnScheduler) must reject such a scheduler.
func (immediateScheduler) isSynchronous() bool { return true }

// IsSynchronous reports whether scheduler runs Schedule's task inline on the
// calling goroutine instead of handing it off. Currently true only for
// Immediate().
func IsSynchronous(scheduler Scheduler) bool {
	s, ok := scheduler.(interface{ isSynchronous() bool })
	return ok && s.isSynchronous()
}

func (immediateScheduler) Schedule(task func()) Disposable {
	d := &flagDisposable{}
	task()
	d.markDisposed()

	return d
}

func (immediateScheduler) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	panic(ErrUnsupportedOperation)
}

func (immediateScheduler) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	panic(ErrUnsupportedOperation)
}

func (s immediateScheduler) Worker() Worker {
	return &immediateWorker{scheduler: s}
}

var _ Worker = (*immediateWorker)(nil)

type immediateWorker struct {
	scheduler immediateScheduler
	disposed  atomic.Bool
}

func (w *immediateWorker) Schedule(task func()) Disposable {
	if w.disposed.Load() {
		return Disposed()
	}

	return w.scheduler.Schedule(task)
}

func (w *immediateWorker) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	if w.disposed.Load() {
		return Disposed()
	}

	return w.scheduler.ScheduleWithDelay(task, delay)
}

func (w *immediateWorker) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	if w.disposed.Load() {
		return Disposed()
	}

	return w.scheduler.SchedulePeriodic(task, initial, period)
}

func (w *immediateWorker) Dispose() {
	w.disposed.Store(true)
}

func (w *immediateWorker) IsDisposed() bool {
	return w.disposed.Load()
}

// flagDisposable is a Disposable for work that has already finished running.
type flagDisposable struct {
	disposed atomic.Bool
}

func (d *flagDisposable) markDisposed() {
	d.disposed.Store(true)
}

func (d *flagDisposable) Dispose() {
	d.disposed.Store(true)
}

func (d *flagDisposable) IsDisposed() bool {
	return d.disposed.Load()
}
