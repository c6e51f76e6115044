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
	"sync"
	"time"

	"github.com/samber/lo"
)

var _ Scheduler = (*TestScheduler)(nil)

// TestScheduler exposes a manually-advanced virtual clock. Nothing runs on
// a background goroutine: scheduled work sits in a due-time-ordered queue
// until AdvanceTimeBy/AdvanceTimeTo runs everything that became due, in
// timestamp order, on the calling goroutine. This makes time-based
// operators (delay, debounce, sample, timeout...) deterministic in tests.
func NewTestScheduler() *TestScheduler {
	return &TestScheduler{}
}

// TestScheduler is a Scheduler with an explicit, manually-advanced virtual
// clock starting at zero.
type TestScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*testTask
}

type testTask struct {
	dueAt      time.Duration
	seq        uint64
	periodic   bool
	period     time.Duration
	task       func()
	disposable *cancellableDisposable
}

// Now returns the scheduler's current virtual time.
func (s *TestScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

func (s *TestScheduler) enqueue(delay, period time.Duration, periodic bool, task func()) Disposable {
	d := &cancellableDisposable{}

	s.mu.Lock()
	s.seq++
	s.pending = append(s.pending, &testTask{
		dueAt:      s.now + delay,
		seq:        s.seq,
		periodic:   periodic,
		period:     period,
		task:       task,
		disposable: d,
	})
	s.mu.Unlock()

	return d
}

func (s *TestScheduler) Schedule(task func()) Disposable {
	return s.enqueue(0, 0, false, task)
}

func (s *TestScheduler) ScheduleWithDelay(task func(), delay time.Duration) Disposable {
	return s.enqueue(delay, 0, false, task)
}

func (s *TestScheduler) SchedulePeriodic(task func(), initial, period time.Duration) Disposable {
	return s.enqueue(initial, period, true, task)
}

func (s *TestScheduler) Worker() Worker {
	return &schedulerWorker{
		scheduler: s,
		tasks:     &workerTasks{},
	}
}

func runSafely(task func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			task()

			return nil
		},
		func(_ any) {},
	)
}

// AdvanceTimeBy moves the virtual clock forward by d, running every task
// that becomes due, in due-time (then schedule) order.
func (s *TestScheduler) AdvanceTimeBy(d time.Duration) {
	s.AdvanceTimeTo(s.Now() + d)
}

// AdvanceTimeTo moves the virtual clock to target, running every task that
// becomes due, in due-time (then schedule) order. A target in the past
// relative to Now is a no-op.
func (s *TestScheduler) AdvanceTimeTo(target time.Duration) {
	for {
		s.mu.Lock()

		if s.now > target {
			s.mu.Unlock()

			return
		}

		idx := -1

		for i, t := range s.pending {
			if t.disposable.IsDisposed() {
				continue
			}

			if t.dueAt > target {
				continue
			}

			if idx == -1 || t.dueAt < s.pending[idx].dueAt ||
				(t.dueAt == s.pending[idx].dueAt && t.seq < s.pending[idx].seq) {
				idx = i
			}
		}

		if idx == -1 {
			s.now = target
			s.pending = compactDisposed(s.pending)
			s.mu.Unlock()

			return
		}

		t := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.now = t.dueAt
		s.mu.Unlock()

		if t.disposable.IsDisposed() {
			continue
		}

		runSafely(t.task)

		if t.periodic && !t.disposable.IsDisposed() {
			s.mu.Lock()
			s.seq++
			t.seq = s.seq
			t.dueAt = s.now + t.period
			s.pending = append(s.pending, t)
			s.mu.Unlock()
		}
	}
}

func compactDisposed(tasks []*testTask) []*testTask {
	out := tasks[:0]

	for _, t := range tasks {
		if !t.disposable.IsDisposed() {
			out = append(out, t)
		}
	}

	return out
}
