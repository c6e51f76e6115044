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
	"sync/atomic"
	"time"
)

var _ Disposable = (*cancellableDisposable)(nil)

// cancellableDisposable is a Disposable for a single scheduled task. It
// composes with an optional *time.Timer that backs delayed/periodic
// scheduling, so disposing before the timer fires also stops the timer.
type cancellableDisposable struct {
	cancelled atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
}

func (d *cancellableDisposable) bindTimer(t *time.Timer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancelled.Load() {
		t.Stop()

		return
	}

	d.timer = t
}

func (d *cancellableDisposable) Dispose() {
	d.cancelled.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *cancellableDisposable) IsDisposed() bool {
	return d.cancelled.Load()
}

// workerTasks tracks the Disposables handed out by a single Worker so that
// disposing the Worker cancels exactly its own not-yet-run tasks.
type workerTasks struct {
	mu       sync.Mutex
	disposed bool
	children []Disposable
}

func (w *workerTasks) track(d Disposable) Disposable {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		d.Dispose()

		return d
	}

	w.children = append(w.children, d)

	return d
}

func (w *workerTasks) isDisposed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.disposed
}

func (w *workerTasks) disposeAll() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()

		return
	}

	w.disposed = true
	children := w.children
	w.children = nil
	w.mu.Unlock()

	for _, c := range children {
		c.Dispose()
	}
}
