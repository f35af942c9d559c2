// Package learner implements the L* control loop: close and make the
// observation table consistent, synthesize a hypothesis, check it for
// equivalence against the target, and integrate any counterexample, until
// the oracle reports equivalence or the state bound is exceeded.
package learner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
	"github.com/gbossert/pylstar/pkg/oracle"
	"github.com/gbossert/pylstar/pkg/table"
)

// Observer receives a notification after every outer-loop iteration,
// letting a caller (the CLI's watch command, a test) render progress
// without the learner depending on any particular UI.
type Observer func(iteration int, hyp *mealy.Machine)

// Option configures a Learner.
type Option func(*Learner)

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Learner) { l.log = log }
}

// WithObserver registers a progress callback invoked after each
// iteration's hypothesis is built.
func WithObserver(obs Observer) Option {
	return func(l *Learner) { l.observer = obs }
}

// Learner runs Angluin's L* algorithm against a membership oracle and an
// equivalence oracle.
type Learner struct {
	alphabet  []letter.Letter
	mem       knowledge.Oracle
	eq        oracle.Oracle
	maxStates int

	log       *zap.Logger
	observer  Observer
	SessionID string
}

// New constructs a Learner. mem answers membership queries, eq decides
// equivalence between a hypothesis and the same target mem is backed by,
// and maxStates bounds both the hypothesis size and the W-method's
// assumed target size.
func New(alphabet []letter.Letter, mem knowledge.Oracle, eq oracle.Oracle, maxStates int, opts ...Option) *Learner {
	l := &Learner{
		alphabet:  append([]letter.Letter(nil), alphabet...),
		mem:       mem,
		eq:        eq,
		maxStates: maxStates,
		log:       zap.NewNop(),
		SessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Learn runs the fixpoint loop to completion and returns the learned
// hypothesis, or an error from the taxonomy in this package if learning
// cannot complete.
func (l *Learner) Learn(ctx context.Context) (*mealy.Machine, error) {
	log := l.log.With(zap.String("session", l.SessionID))
	t := table.New(l.alphabet, l.mem, log)

	if err := l.checkCancel(ctx); err != nil {
		return nil, err
	}
	if err := t.Initialize(ctx); err != nil {
		return nil, l.classify(err)
	}

	for iteration := 1; ; iteration++ {
		if err := l.checkCancel(ctx); err != nil {
			return nil, err
		}
		if err := l.closeAndMakeConsistent(ctx, t, log); err != nil {
			return nil, l.classify(err)
		}

		hyp, err := t.BuildHypothesis()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
		}
		log.Info("built hypothesis", zap.Int("iteration", iteration), zap.Int("states", hyp.NumStates()))
		if l.observer != nil {
			l.observer(iteration, hyp)
		}

		if hyp.NumStates() > l.maxStates {
			return nil, fmt.Errorf("%w: hypothesis reached %d states, bound is %d", ErrStateBoundExceeded, hyp.NumStates(), l.maxStates)
		}

		if err := l.checkCancel(ctx); err != nil {
			return nil, err
		}
		verdict, err := l.eq.Check(ctx, hyp, l.mem)
		if err != nil {
			return nil, l.classify(err)
		}
		if verdict.Equivalent {
			log.Info("hypothesis accepted", zap.Int("states", hyp.NumStates()))
			return hyp, nil
		}

		log.Debug("counterexample found", zap.Stringer("word", verdict.Counterexample))
		if err := l.checkSpurious(ctx, hyp, verdict.Counterexample); err != nil {
			return nil, err
		}
		if err := t.AddCounterexample(ctx, verdict.Counterexample); err != nil {
			return nil, l.classify(err)
		}
	}
}

// closeAndMakeConsistent repeatedly closes the table and resolves
// inconsistencies until both checks pass in the same pass, matching
// pylstar's build_hypothesis inner loop.
func (l *Learner) closeAndMakeConsistent(ctx context.Context, t *table.Table, log *zap.Logger) error {
	for {
		if err := l.checkCancel(ctx); err != nil {
			return err
		}
		if closed, unmatched := t.IsClosed(); !closed {
			log.Debug("closing table", zap.Stringer("unmatched", unmatched))
			if err := t.Close(ctx, unmatched); err != nil {
				return err
			}
			continue
		}
		if inc, found := t.FindInconsistency(); found {
			log.Debug("resolving inconsistency", zap.Stringer("s1", inc.S1), zap.Stringer("s2", inc.S2))
			if err := t.MakeConsistent(ctx, inc); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// checkSpurious re-runs the counterexample against both the hypothesis and
// the membership oracle and fails fast if they actually agree. An
// equivalence oracle that returns such a word is misbehaving: integrating
// it would leave the table unchanged and the outer loop would spin forever
// rebuilding the same hypothesis.
func (l *Learner) checkSpurious(ctx context.Context, hyp *mealy.Machine, counterexample letter.Word) error {
	hypOut, _, err := hyp.Run(counterexample)
	if err != nil {
		return fmt.Errorf("%w: counterexample %v not runnable against hypothesis: %v", ErrOracleMisbehavior, counterexample, err)
	}
	targetOut, err := l.mem.Resolve(ctx, counterexample)
	if err != nil {
		return l.classify(err)
	}
	if hypOut.Equal(targetOut) {
		return fmt.Errorf("%w: equivalence oracle returned counterexample %v on which hypothesis and target agree (%v)", ErrOracleMisbehavior, counterexample, hypOut)
	}
	return nil
}

func (l *Learner) checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

// classify maps an error surfaced by the table or oracle layers onto this
// package's taxonomy, preserving cache-layer nondeterminism detection as
// oracle misbehavior per the decision recorded in DESIGN.md.
func (l *Learner) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	case errors.Is(err, knowledge.ErrInconsistentObservation):
		return fmt.Errorf("%w: %v", ErrOracleMisbehavior, err)
	case errors.Is(err, knowledge.ErrTransportFailure):
		return fmt.Errorf("%w: %v", ErrTransportFailure, err)
	default:
		return err
	}
}
