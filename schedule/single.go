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
	"time"

	"github.com/samber/lo"
)

var _ Scheduler = (*singleScheduler)(nil)

// NewSingle creates a Scheduler backed by one background goroutine. Tasks
// scheduled on it, and on every Worker derived from it, run strictly in the
// order they become due, never concurrently with one another.
func NewSingle() Scheduler {
	s := &singleScheduler{
		tasks: make(chan func(), 64),
	}

	go s.loop()

	return s
}

type singleScheduler struct {
	tasks chan func()
}

func (s *singleScheduler) loop() {
	for task := range s.tasks {
		task()
	}
}

func (s *singleScheduler) runSafely(task func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			task()

			return nil
		},
		func(_ any) {
			// scheduled tasks run detached from any caller; panics are
			// swallowed here rather than crashing the worker goroutine.
		},
	)
}

func (s *singleScheduler) Schedule(task func()) Disposable {
	d := &cancellableDisposable{}

	s.tasks <- func() {
		if !d.IsDisposed() {
			s.runSafely(task)
			d.Dispose()
		}
	}

	return d
}

func (s *singleScheduler) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	d := &cancellableDisposable{}

	timer := time.AfterFunc(delay, func() {
		if d.IsDisposed() {
			return
		}

		s.tasks <- func() {
			if !d.IsDisposed() {
				s.runSafely(task)
				d.Dispose()
			}
		}
	})
	d.bindTimer(timer)

	return d
}

func (s *singleScheduler) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	d := &cancellableDisposable{}

	var arm func(time.Duration)
	arm = func(wait time.Duration) {
		timer := time.AfterFunc(wait, func() {
			if d.IsDisposed() {
				return
			}

			s.tasks <- func() {
				if d.IsDisposed() {
					return
				}

				s.runSafely(task)
				arm(period)
			}
		})
		d.bindTimer(timer)
	}

	arm(initial)

	return d
}

func (s *singleScheduler) Worker() Worker {
	return &schedulerWorker{
		scheduler: s,
		tasks:     &workerTasks{},
	}
}

var _ Worker = (*schedulerWorker)(nil)

// schedulerWorker adapts any Scheduler into a Worker scoped to the tasks it
// personally submitted, shared by NewSingle, Computation, IO and NewThread.
type schedulerWorker struct {
	scheduler Scheduler
	tasks     *workerTasks
}

func (w *schedulerWorker) Schedule(task func()) Disposable {
	if w.tasks.isDisposed() {
		return Disposed()
	}

	return w.tasks.track(w.scheduler.Schedule(task))
}

func (w *schedulerWorker) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	if w.tasks.isDisposed() {
		return Disposed()
	}

	return w.tasks.track(w.scheduler.ScheduleWithDelay(task, delay))
}

func (w *schedulerWorker) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	if w.tasks.isDisposed() {
		return Disposed()
	}

	return w.tasks.track(w.scheduler.SchedulePeriodic(task, initial, period))
}

func (w *schedulerWorker) Dispose() {
	w.tasks.disposeAll()
}

func (w *schedulerWorker) IsDisposed() bool {
	return w.tasks.isDisposed()
}
