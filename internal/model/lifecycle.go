package model

import (
	"errors"
	"fmt"
)

// LifecycleState is the listing state shared by products and variations.
//
//	draft ──activate──▶ active ──deactivate──▶ inactive
//	                      │  ◀────activate────────┘
//	                      └──delete──▶ deleted (terminal)
type LifecycleState string

const (
	StateDraft    LifecycleState = "draft"
	StateActive   LifecycleState = "active"
	StateInactive LifecycleState = "inactive"
	StateDeleted  LifecycleState = "deleted"
)

// NoOpReason explains why a guarded transition left the state untouched.
type NoOpReason string

const (
	ReasonAlreadyActive   NoOpReason = "already_active"
	ReasonAlreadyInactive NoOpReason = "already_inactive"
	ReasonAlreadyDeleted  NoOpReason = "already_deleted"
	ReasonDeleted         NoOpReason = "deleted"
)

// ErrNotActive is returned by Delete when the listing was never activated
// or is currently inactive.
var ErrNotActive = errors.New("lifecycle: listing is not active")

// Transition is the result of a guarded state change.
type Transition struct {
	From   LifecycleState
	To     LifecycleState
	Reason NoOpReason // empty when Changed() is true
}

// Changed reports whether the transition moved the state.
func (t Transition) Changed() bool { return t.From != t.To }

func (s LifecycleState) IsActive() bool  { return s == StateActive }
func (s LifecycleState) IsDeleted() bool { return s == StateDeleted }

// Valid reports whether s is one of the known states.
func (s LifecycleState) Valid() bool {
	switch s {
	case StateDraft, StateActive, StateInactive, StateDeleted:
		return true
	}
	return false
}

func (s LifecycleState) Activate() Transition {
	switch s {
	case StateActive:
		return Transition{From: s, To: s, Reason: ReasonAlreadyActive}
	case StateDeleted:
		return Transition{From: s, To: s, Reason: ReasonDeleted}
	}
	return Transition{From: s, To: StateActive}
}

func (s LifecycleState) Deactivate() Transition {
	switch s {
	case StateActive:
		return Transition{From: s, To: StateInactive}
	case StateDeleted:
		return Transition{From: s, To: s, Reason: ReasonDeleted}
	}
	return Transition{From: s, To: s, Reason: ReasonAlreadyInactive}
}

// Delete only accepts active listings. A deleted listing yields a no-op.
func (s LifecycleState) Delete() (Transition, error) {
	switch s {
	case StateDeleted:
		return Transition{From: s, To: s, Reason: ReasonAlreadyDeleted}, nil
	case StateActive:
		return Transition{From: s, To: StateDeleted}, nil
	}
	return Transition{From: s, To: s}, ErrNotActive
}

// Cascade is applied to variations when their product is deleted: active
// variations become inactive, every other state is kept.
func (s LifecycleState) Cascade() LifecycleState {
	if s == StateActive {
		return StateInactive
	}
	return s
}

func checkState(s LifecycleState) error {
	if s != "" && !s.Valid() {
		return fmt.Errorf("lifecycle: unknown state %q", s)
	}
	return nil
}
