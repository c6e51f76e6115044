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

import "github.com/flowbase/reactor/schedule"

// TestScheduler is the virtual-clock Scheduler from package schedule,
// re-exported here so a test only needs to import rxtest for both recorder
// and virtual-clock needs.
type TestScheduler = schedule.TestScheduler

// NewTestScheduler creates a TestScheduler with its virtual clock at zero.
func NewTestScheduler() *TestScheduler {
	return schedule.NewTestScheduler()
}
