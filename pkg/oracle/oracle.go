// Package oracle implements equivalence oracles: given a hypothesis Mealy
// machine, either confirm it matches the target or produce a counterexample
// word where they disagree.
package oracle

import (
	"context"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// Verdict is the result of an equivalence check.
type Verdict struct {
	Equivalent     bool
	Counterexample letter.Word
}

// Oracle checks a hypothesis against a target for behavioral equivalence.
type Oracle interface {
	Check(ctx context.Context, hyp *mealy.Machine, target knowledge.Oracle) (Verdict, error)
}

func runHypothesis(hyp *mealy.Machine, word letter.Word) (letter.Word, error) {
	out, _, err := hyp.Run(word)
	return out, err
}
