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

var (
	_ Scheduler = (*elasticScheduler)(nil)
)

// IO returns a Scheduler that spawns one goroutine per task, elastically,
// with no fixed upper bound — intended for blocking I/O where the number
// of concurrently in-flight tasks is governed by the caller, not the pool.
func IO() Scheduler {
	return &elasticScheduler{}
}

// NewThread returns a Scheduler that spawns exactly one goroutine per
// scheduled task. Disposing a not-yet-started task prevents it from
// running; a task already running cannot be interrupted, matching the
// limits of cooperative cancellation in Go.
func NewThread() Scheduler {
	return &elasticScheduler{}
}

type elasticScheduler struct{}

func (s *elasticScheduler) runSafely(task func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			task()

			return nil
		},
		func(_ any) {},
	)
}

func (s *elasticScheduler) Schedule(task func()) Disposable {
	d := &cancellableDisposable{}

	go func() {
		if !d.IsDisposed() {
			s.runSafely(task)
			d.Dispose()
		}
	}()

	return d
}

func (s *elasticScheduler) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	d := &cancellableDisposable{}

	timer := time.AfterFunc(delay, func() {
		if !d.IsDisposed() {
			s.runSafely(task)
			d.Dispose()
		}
	})
	d.bindTimer(timer)

	return d
}

func (s *elasticScheduler) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	d := &cancellableDisposable{}

	var arm func(time.Duration)
	arm = func(wait time.Duration) {
		timer := time.AfterFunc(wait, func() {
			if d.IsDisposed() {
				return
			}

			s.runSafely(task)
			arm(period)
		})
		d.bindTimer(timer)
	}

	arm(initial)

	return d
}

func (s *elasticScheduler) Worker() Worker {
	return &schedulerWorker{
		scheduler: s,
		tasks:     &workerTasks{},
	}
}
