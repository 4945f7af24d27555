// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// SlotState is the lifecycle state of the serving slot.
type SlotState uint8

// Slot states.
const (
	StateEmpty SlotState = iota
	StateLoading
	StateReady
)

// String returns the state name.
func (s SlotState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrNotReady is matched by NotReadyError via errors.Is.
var ErrNotReady = errors.New("model not ready")

// NotReadyError is returned when no model is available to serve.
type NotReadyError struct {
	State SlotState
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("model not ready (state: %s)", e.State)
}

// Is allows errors.Is(err, ErrNotReady).
func (e *NotReadyError) Is(target error) bool {
	return target == ErrNotReady
}

// ErrorType labels the error in metrics.
func (e *NotReadyError) ErrorType() string { return "not_ready" }

type slotValue struct {
	state SlotState
	model *Model
	prev  *slotValue
}

// Slot holds the serving model. Readers never block; writers swap whole
// values. A Loading slot keeps serving the model it held before loading
// began, if any.
//
// Writers (BeginLoading, Publish, Abort) must be serialized by the caller.
type Slot struct {
	v atomic.Pointer[slotValue]
}

// NewSlot returns an Empty slot.
func NewSlot() *Slot {
	s := &Slot{}
	s.v.Store(&slotValue{state: StateEmpty})
	return s
}

// Current returns the serving model, or a *NotReadyError when none is loaded.
func (s *Slot) Current() (*Model, error) {
	v := s.v.Load()
	if v.model == nil {
		return nil, &NotReadyError{State: v.state}
	}
	return v.model, nil
}

// State returns the current state.
func (s *Slot) State() SlotState {
	return s.v.Load().state
}

// BeginLoading marks the slot Loading while keeping the current model visible.
func (s *Slot) BeginLoading() {
	cur := s.v.Load()
	if cur.state == StateLoading {
		return
	}
	s.v.Store(&slotValue{state: StateLoading, model: cur.model, prev: cur})
}

// Publish makes m the serving model and returns the model it replaced.
func (s *Slot) Publish(m *Model) *Model {
	old := s.v.Swap(&slotValue{state: StateReady, model: m})
	return old.model
}

// Abort ends a Loading phase without a new model, restoring the prior state.
func (s *Slot) Abort() {
	cur := s.v.Load()
	if cur.state != StateLoading {
		return
	}
	if cur.prev != nil {
		s.v.Store(cur.prev)
		return
	}
	s.v.Store(&slotValue{state: StateEmpty})
}
