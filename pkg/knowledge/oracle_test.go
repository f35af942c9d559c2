package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

func echoMachine() *mealy.Machine {
	a := letter.New("a")
	m := mealy.New([]letter.Letter{a})
	q0 := m.AddState("q0")
	m.SetInitial(q0)
	m.AddTransition(q0, a, a, q0)
	return m
}

type countingTarget struct {
	*FixtureTarget
	submits int
}

func (c *countingTarget) Submit(ctx context.Context, input letter.Word) (letter.Word, error) {
	c.submits++
	return c.FixtureTarget.Submit(ctx, input)
}

func TestActiveOracleCachesAcrossResolves(t *testing.T) {
	target := &countingTarget{FixtureTarget: NewFixtureTarget(echoMachine())}
	o := NewActiveOracle(target, nil)

	word := letter.NewWord(letter.New("a"), letter.New("a"))
	_, err := o.Resolve(context.Background(), word)
	require.NoError(t, err)
	_, err = o.Resolve(context.Background(), word)
	require.NoError(t, err)

	require.Equal(t, 1, target.submits, "second Resolve should hit the cache, not the target")
}

func TestActiveOracleSeed(t *testing.T) {
	target := &countingTarget{FixtureTarget: NewFixtureTarget(echoMachine())}
	o := NewActiveOracle(target, nil)

	word := letter.NewWord(letter.New("a"))
	require.NoError(t, o.Seed(word, word))

	out, err := o.Resolve(context.Background(), word)
	require.NoError(t, err)
	require.True(t, out.Equal(word))
	require.Equal(t, 0, target.submits, "seeded answer should never touch the target")
}
