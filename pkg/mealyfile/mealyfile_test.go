package mealyfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

func buildFlipFlop() *mealy.Machine {
	flip := letter.New("flip")
	m := mealy.New([]letter.Letter{flip})
	off := m.AddState("off")
	on := m.AddState("on")
	m.SetInitial(off)
	m.AddTransition(off, flip, letter.New("on"), on)
	m.AddTransition(on, flip, letter.New("off"), off)
	return m
}

func TestDOTContainsStatesAndEdges(t *testing.T) {
	m := buildFlipFlop()
	dot := DOT(m, "flipflop")

	require.True(t, strings.HasPrefix(dot, "digraph Mealy {"))
	require.Contains(t, dot, `"off"`)
	require.Contains(t, dot, `"on"`)
	require.Contains(t, dot, "flip/on")
	require.Contains(t, dot, "flip/off")
}

func TestJSONRoundTrip(t *testing.T) {
	m := buildFlipFlop()
	data, err := Marshal(m, false)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, m.NumStates(), got.NumStates())

	out, _, err := got.Run(letter.NewWord(letter.New("flip"), letter.New("flip"), letter.New("flip")))
	require.NoError(t, err)
	want := letter.NewWord(letter.New("on"), letter.New("off"), letter.New("on"))
	require.True(t, out.Equal(want))
}

func TestUnmarshalRejectsUnknownInitialState(t *testing.T) {
	_, err := Unmarshal([]byte(`{"states":["a"],"alphabet":["x"],"initial":"missing","transitions":[]}`))
	require.Error(t, err)
}
