package knowledge

import (
	"context"

	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// FixtureTarget answers membership queries by replaying against a known
// Mealy machine, the Go analogue of pylstar's FakeActiveKnowledgeBase. It
// is used by the CLI's built-in scenarios and by every learner test that
// needs a ground-truth target to learn against.
type FixtureTarget struct {
	machine *mealy.Machine
}

// NewFixtureTarget wraps m. Start/Stop are no-ops; m must already have an
// initial state and pass Validate.
func NewFixtureTarget(m *mealy.Machine) *FixtureTarget {
	return &FixtureTarget{machine: m}
}

func (f *FixtureTarget) Start(ctx context.Context) error { return nil }
func (f *FixtureTarget) Stop(ctx context.Context) error  { return nil }

func (f *FixtureTarget) Submit(ctx context.Context, input letter.Word) (letter.Word, error) {
	out, _, err := f.machine.Run(input)
	return out, err
}
