// Copyright 2018-present Reso-nance Numerique.
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package progress

import (
	"github.com/mendersoftware/progressbar"
)

// CLISink renders Tracker's 0..100 stream as a terminal progress bar,
// the way the teacher's utils.ProgressWriter wraps the same library
// around a byte count (client/utils/progress.go). It stands in for
// system.Display's progress screen when running the host-simulation
// harness instead of real hardware.
type CLISink struct {
	bar      *progressbar.Bar
	finished bool
}

// NewCLISink constructs a sink over a 0..100 scale bar.
func NewCLISink() *CLISink {
	return &CLISink{bar: progressbar.New(100)}
}

func (s *CLISink) ShowProgress(percent int) {
	if s.finished || s.bar == nil {
		return
	}
	delta := percent - s.bar.Percentage
	if delta > 0 {
		s.bar.Tick(int64(delta))
	}
	if s.bar.Percentage >= 100 {
		s.bar.Finish()
		s.finished = true
	}
}
