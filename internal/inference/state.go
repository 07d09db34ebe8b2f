// Package inference wraps all calls to the external vision-language
// service with retries, model fallback and schema-constrained requests.
// The retry policy is an explicit state machine with a pure transition
// function; the network call is the only impure leaf.
package inference

import "time"

// Phase is the orchestration phase of one invocation.
type Phase int

const (
	PhaseAttempting Phase = iota
	PhaseDone
	PhaseFailed
)

// Outcome classifies the result of one attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeRateLimited covers rate-limit and temporary-availability
	// errors (HTTP 429/503 equivalents); these trigger model fallback.
	OutcomeRateLimited
	// OutcomeOther covers everything else (malformed responses, schema
	// violations); retried on the same model.
	OutcomeOther
)

// State is the orchestration state between attempts.
type State struct {
	Phase      Phase
	Model      string
	OnFallback bool
	Attempt    int
	Delay      time.Duration // wait before the next attempt
}

// Transition holds the fixed invocation policy.
type Transition struct {
	Primary     string
	Fallback    string
	BaseDelay   time.Duration
	MaxAttempts int
}

// Initial returns the state for the first attempt: primary model, no delay.
func (t Transition) Initial() State {
	return State{Phase: PhaseAttempting, Model: t.Primary, Attempt: 1}
}

// Next computes the state after one attempt. Rate/availability errors
// switch to the fallback model once; on the fallback there is nowhere
// further to fall back to, so the delay doubles instead. Other errors
// retry the same model after the base delay. After MaxAttempts with no
// success the invocation fails.
func (t Transition) Next(s State, o Outcome) State {
	if s.Phase != PhaseAttempting {
		return s
	}
	if o == OutcomeSuccess {
		s.Phase = PhaseDone
		return s
	}
	if s.Attempt >= t.MaxAttempts {
		s.Phase = PhaseFailed
		return s
	}

	s.Attempt++
	switch o {
	case OutcomeRateLimited:
		if !s.OnFallback {
			s.Model = t.Fallback
			s.OnFallback = true
			s.Delay = t.BaseDelay
		} else {
			s.Delay *= 2
		}
	default:
		s.Delay = t.BaseDelay
	}
	return s
}
