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

// Package progress maps a multi-phase pipeline (eight phases for an
// update, four for a rollback) onto a single 0..100 percentage and forwards it to a display sink, coalescing
// redundant updates (spec.md §4.2, C2).
package progress

// Sink receives the coalesced 0..100 percentage. system.Display
// satisfies this narrowed view of itself; so does progress.CLISink.
type Sink interface {
	ShowProgress(percent int)
}

// Tracker is the stateful half of C2: it remembers how many phases the
// pipeline has and what percentage was last reported, so Update can
// suppress a call to the sink when nothing changed.
type Tracker struct {
	totalPhases int
	sink        Sink
	lastPercent int
}

// NewTracker constructs a Tracker for a pipeline of totalPhases phases.
// lastPercent starts below any valid percentage so the very first
// genuine Update always fires, per spec.md §3.
func NewTracker(totalPhases int, sink Sink) *Tracker {
	return &Tracker{
		totalPhases: totalPhases,
		sink:        sink,
		lastPercent: -1,
	}
}

// Update reports progress within phaseNumber (1-indexed), having
// completed current of total sub-units of that phase. Inputs with
// total == 0 or phaseNumber outside [1, totalPhases] are silently
// ignored — defensive, never fails the update (spec.md §4.2).
func (t *Tracker) Update(phaseNumber, current, total int) {
	if total == 0 || phaseNumber < 1 || phaseNumber > t.totalPhases {
		return
	}

	// overall = ((phaseNumber-1) + current/total) * (100/totalPhases),
	// computed in integer arithmetic per spec.md §9 so that rounding is
	// deterministic and monotone: scale by 100 first, then divide once
	// by total*totalPhases.
	numerator := (int64(phaseNumber-1)*int64(total) + int64(current)) * 100
	denominator := int64(total) * int64(t.totalPhases)
	overall := int(numerator / denominator)

	if overall == t.lastPercent {
		return
	}
	t.lastPercent = overall
	if t.sink != nil {
		t.sink.ShowProgress(overall)
	}
}
