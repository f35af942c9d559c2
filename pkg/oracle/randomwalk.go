package oracle

import (
	"context"
	"math/rand"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// RandomWalk is an unsound, probabilistic equivalence oracle: it walks
// random input letters against both hypothesis and target, restarting
// from the initial state with probability RestartProbability, for up to
// MaxSteps total letters, and reports the first point of disagreement.
// Grounded on pylstar's RandomWalkMethod. Finding no disagreement is not
// proof of equivalence — only the W-method oracle gives that guarantee.
type RandomWalk struct {
	MaxSteps           int
	RestartProbability float64
	Rand               *rand.Rand
}

func (o RandomWalk) Check(ctx context.Context, hyp *mealy.Machine, target knowledge.Oracle) (Verdict, error) {
	rng := o.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	alphabet := hyp.Alphabet()
	if len(alphabet) == 0 {
		return Verdict{Equivalent: true}, nil
	}

	word := letter.Empty
	state := hyp.Initial()
	for step := 0; step < o.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return Verdict{}, err
		}

		if step > 0 && rng.Float64() < o.RestartProbability {
			word = letter.Empty
			state = hyp.Initial()
		}

		next := alphabet[rng.Intn(len(alphabet))]
		_, dest, ok := hyp.Step(state, next)
		if !ok {
			return Verdict{}, errNoTransition(state, next)
		}
		word = word.Concat(letter.NewWord(next))
		state = dest

		hypOut, err := runHypothesis(hyp, word)
		if err != nil {
			return Verdict{}, err
		}
		targetOut, err := target.Resolve(ctx, word)
		if err != nil {
			return Verdict{}, err
		}
		if !hypOut.Equal(targetOut) {
			return Verdict{Counterexample: word}, nil
		}
	}
	return Verdict{Equivalent: true}, nil
}

func errNoTransition(s mealy.StateIndex, l letter.Letter) error {
	return &noTransitionError{state: s, letter: l}
}

type noTransitionError struct {
	state  mealy.StateIndex
	letter letter.Letter
}

func (e *noTransitionError) Error() string {
	return "oracle: hypothesis has no transition from state during random walk"
}
