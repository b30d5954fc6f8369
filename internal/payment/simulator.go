package payment

import (
	"sync"
	"time"
)

// Stage is the simulator's lifecycle state. StageError is defined for a real
// gateway integration; nothing in the simulated path transitions into it.
type Stage string

const (
	StageProcessing Stage = "processing"
	StageSuccess    Stage = "success"
	StageError      Stage = "error"
)

// Checkpoint multiples of the base unit. With the default 100ms unit this
// reproduces the 500/1200/1800/2500ms progress ramp and the 1500ms success
// display delay of the gateway emulation.
const (
	tick30       = 5
	tick60       = 12
	tick90       = 18
	tickComplete = 25
	tickNotify   = 15
)

// Simulator emulates a payment gateway's asynchronous processing lifecycle on
// wall-clock timers. It is restartable, not resumable: Activate always begins
// at processing/0%, and Cancel before a terminal stage stops every pending
// timer so no completion callback fires against a discarded session.
type Simulator struct {
	unit time.Duration

	mu       sync.Mutex
	stage    Stage
	progress int
	timers   []*time.Timer
	gen      int
}

func NewSimulator(unit time.Duration) *Simulator {
	if unit <= 0 {
		unit = 100 * time.Millisecond
	}
	return &Simulator{unit: unit, stage: StageProcessing}
}

// Activate arms the progress timers and returns immediately. onSuccess fires
// exactly once, after the success display delay, unless Cancel intervenes.
// onError is reserved for a real gateway and is never invoked by the
// simulation. Re-activating an in-flight simulator resets it first.
func (s *Simulator) Activate(onSuccess, onError func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimersLocked()
	s.gen++
	gen := s.gen
	s.stage = StageProcessing
	s.progress = 0

	s.schedule(time.Duration(tick30)*s.unit, func() { s.setProgress(gen, 30) })
	s.schedule(time.Duration(tick60)*s.unit, func() { s.setProgress(gen, 60) })
	s.schedule(time.Duration(tick90)*s.unit, func() { s.setProgress(gen, 90) })
	s.schedule(time.Duration(tickComplete)*s.unit, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.progress = 100
		s.stage = StageSuccess
		s.timers = append(s.timers, time.AfterFunc(time.Duration(tickNotify)*s.unit, func() {
			s.mu.Lock()
			stale := s.gen != gen
			s.mu.Unlock()
			if !stale && onSuccess != nil {
				onSuccess()
			}
		}))
		s.mu.Unlock()
	})
}

// Cancel tears the simulator down. Every pending timer is stopped; if a
// terminal stage was not reached no callback will ever fire for this
// activation.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.stopTimersLocked()
	s.stage = StageProcessing
	s.progress = 0
}

func (s *Simulator) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Simulator) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// schedule must be called with s.mu held.
func (s *Simulator) schedule(d time.Duration, fn func()) {
	s.timers = append(s.timers, time.AfterFunc(d, fn))
}

func (s *Simulator) setProgress(gen, pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.progress = pct
}

// stopTimersLocked must be called with s.mu held.
func (s *Simulator) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
