package service

import "buyonline/internal/model"

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeNoOp    OutcomeKind = "noop"
)

// Outcome is the non-error result of a lifecycle call. A NoOp carries the
// reason the state was left untouched.
type Outcome struct {
	Kind    OutcomeKind
	Reason  model.NoOpReason
	Message string
}

func success(msg string) Outcome { return Outcome{Kind: OutcomeSuccess, Message: msg} }

func noOp(reason model.NoOpReason, msg string) Outcome {
	return Outcome{Kind: OutcomeNoOp, Reason: reason, Message: msg}
}

func (o Outcome) IsNoOp() bool { return o.Kind == OutcomeNoOp }
