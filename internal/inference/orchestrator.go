package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gembakit/photopair/internal/photo"
)

// ErrRateLimited marks an error as a rate-limit or availability failure.
// Providers wrap their transport errors with it so the default classifier
// needs no provider knowledge.
var ErrRateLimited = errors.New("rate limited or unavailable")

// Item is one photo in an inference batch.
type Item struct {
	Name    string
	Payload []byte
}

// Result is the per-photo outcome of a batch call. Err is set when the
// service answered for this photo but the answer was unusable.
type Result struct {
	Name     string
	Analysis *photo.Analysis
	Err      string
}

// CallFunc performs the actual network call against a concrete model.
// Injected so the orchestration logic is testable without a service.
type CallFunc func(ctx context.Context, model string, temperature float64, items []Item, prompt string, schema any) ([]Result, error)

// Classifier maps an attempt error to an Outcome.
type Classifier func(error) Outcome

// DefaultClassifier treats wrapped ErrRateLimited and common
// rate/availability message fragments as OutcomeRateLimited and
// everything else as OutcomeOther.
func DefaultClassifier(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrRateLimited) {
		return OutcomeRateLimited
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{"429", "503", "rate limit", "resource exhausted", "overloaded", "unavailable"} {
		if strings.Contains(msg, frag) {
			return OutcomeRateLimited
		}
	}
	return OutcomeOther
}

// Options configures an Orchestrator.
type Options struct {
	Primary     string
	Fallback    string
	BaseDelay   time.Duration
	MaxAttempts int
	Classifier  Classifier
	// Sleep is injectable for tests; the default honors ctx between
	// attempts. An in-flight call is never aborted, only the wait.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger zerolog.Logger
}

// Orchestrator drives the attempt/fallback state machine around a
// CallFunc. It is the only component permitted to talk to the service.
type Orchestrator struct {
	call       CallFunc
	classify   Classifier
	transition Transition
	sleep      func(ctx context.Context, d time.Duration) error
	log        zerolog.Logger
}

// New builds an Orchestrator. Zero option fields get the fixed policy
// defaults: 3 attempts, 2s base delay, default classifier.
func New(call CallFunc, opts Options) *Orchestrator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.Classifier == nil {
		opts.Classifier = DefaultClassifier
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	return &Orchestrator{
		call:     call,
		classify: opts.Classifier,
		transition: Transition{
			Primary:     opts.Primary,
			Fallback:    opts.Fallback,
			BaseDelay:   opts.BaseDelay,
			MaxAttempts: opts.MaxAttempts,
		},
		sleep: opts.Sleep,
		log:   opts.Logger,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Invoke runs one schema-constrained batch call at temperature zero.
func (o *Orchestrator) Invoke(ctx context.Context, items []Item, prompt string, schema any) ([]Result, error) {
	return o.InvokeAt(ctx, 0, items, prompt, schema)
}

// InvokeAt is Invoke with an explicit sampling temperature (used by
// consensus rounds, which raise it per round).
func (o *Orchestrator) InvokeAt(ctx context.Context, temperature float64, items []Item, prompt string, schema any) ([]Result, error) {
	st := o.transition.Initial()
	var lastErr error

	for st.Phase == PhaseAttempting {
		if st.Delay > 0 {
			if err := o.sleep(ctx, st.Delay); err != nil {
				return nil, err
			}
		}

		results, err := o.call(ctx, st.Model, temperature, items, prompt, schema)
		if err == nil {
			return results, nil
		}
		lastErr = err

		outcome := o.classify(err)
		o.log.Warn().
			Str("model", st.Model).
			Int("attempt", st.Attempt).
			Bool("rate_limited", outcome == OutcomeRateLimited).
			Err(err).
			Msg("inference attempt failed")

		st = o.transition.Next(st, outcome)
	}

	return nil, fmt.Errorf("inference failed after %d attempts: %w", o.transition.MaxAttempts, lastErr)
}
