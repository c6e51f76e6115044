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
	"runtime"
	"time"

	"github.com/samber/lo"
)

var _ Scheduler = (*poolScheduler)(nil)

// Computation returns a Scheduler backed by a fixed-size pool of goroutines
// sized to runtime.GOMAXPROCS(0), intended for CPU-bound work that should
// not oversubscribe the host.
func Computation() Scheduler {
	return newPoolScheduler(runtime.GOMAXPROCS(0))
}

func newPoolScheduler(size int) *poolScheduler {
	if size < 1 {
		size = 1
	}

	s := &poolScheduler{
		tasks: make(chan func(), 256),
	}

	for range size {
		go s.loop()
	}

	return s
}

type poolScheduler struct {
	tasks chan func()
}

func (s *poolScheduler) loop() {
	for task := range s.tasks {
		task()
	}
}

func (s *poolScheduler) runSafely(task func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			task()

			return nil
		},
		func(_ any) {},
	)
}

func (s *poolScheduler) Schedule(task func()) Disposable {
	d := &cancellableDisposable{}

	s.tasks <- func() {
		if !d.IsDisposed() {
			s.runSafely(task)
			d.Dispose()
		}
	}

	return d
}

func (s *poolScheduler) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
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

func (s *poolScheduler) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
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

func (s *poolScheduler) Worker() Worker {
	return &schedulerWorker{
		scheduler: s,
		tasks:     &workerTasks{},
	}
}
