/*
Copyright 2025 The Application Catalog Manager contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package poll implements the scheduling primitives that alternate
// ReconcileEngine.Apply with a sleep that a cluster watch can cut
// short (spec.md §4.1, §4.7).
package poll

import (
	"sync"
	"time"
)

// InterruptibleSleep blocks for up to a given duration, returning early
// if Interrupt is called from any other goroutine. An Interrupt that
// arrives while no Sleep is in progress latches: the next Sleep call
// returns immediately. Concurrent interrupts collapse to one pending
// wakeup. Not re-entrant: at most one goroutine may be inside Sleep at
// a time.
//
// A plain buffered channel of capacity 1 can express "one pending
// wakeup latches", but cutting an in-progress timed wait short still
// needs something to select on for the timeout itself, and resetting
// that channel for the next Sleep call without a race needs its own
// lock around the channel anyway — at which point it is a condition
// variable wearing a channel's clothes. A mutex-guarded bool plus
// sync.Cond makes the latch state and the "wake the sleeper now"
// broadcast explicit, mirroring the explicit-state style the teacher
// uses for its own reconcile scheduling rather than hiding it inside
// channel buffering semantics.
type InterruptibleSleep struct {
	mu         sync.Mutex
	cond       *sync.Cond
	sleeping   bool
	interrupt  bool
	generation uint64
}

// NewInterruptibleSleep constructs a ready-to-use InterruptibleSleep.
func NewInterruptibleSleep() *InterruptibleSleep {
	s := &InterruptibleSleep{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Sleep blocks for up to d, or until Interrupt is called (including an
// Interrupt that arrived before Sleep was called). Calling Sleep while
// another goroutine is already inside Sleep is a programming error and
// panics.
func (s *InterruptibleSleep) Sleep(d time.Duration) {
	s.mu.Lock()
	if s.sleeping {
		s.mu.Unlock()
		panic("poll: InterruptibleSleep.Sleep is not re-entrant")
	}

	if s.interrupt {
		s.interrupt = false
		s.mu.Unlock()
		return
	}

	s.sleeping = true
	gen := s.generation
	deadline := time.Now().Add(d)
	s.mu.Unlock()

	timer := time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.sleeping && s.generation == gen {
			s.cond.Broadcast()
		}
		s.mu.Unlock()
	})
	defer timer.Stop()

	s.mu.Lock()
	for s.sleeping && !s.interrupt && time.Now().Before(deadline) {
		s.cond.Wait()
	}
	s.interrupt = false
	s.sleeping = false
	s.generation++
	s.mu.Unlock()
}

// Interrupt wakes an in-progress Sleep immediately, or latches so the
// next Sleep call returns immediately. Safe to call from any number of
// goroutines concurrently; concurrent interrupts collapse to one
// pending wakeup.
func (s *InterruptibleSleep) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interrupt = true
	if s.sleeping {
		s.cond.Broadcast()
	}
}
