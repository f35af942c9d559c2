package mealy

import (
	"testing"

	"github.com/gbossert/pylstar/pkg/letter"
)

func buildFlipFlop() *Machine {
	flip := letter.New("flip")
	m := New([]letter.Letter{flip})
	off := m.AddState("off")
	on := m.AddState("on")
	m.SetInitial(off)
	m.AddTransition(off, flip, letter.New("on"), on)
	m.AddTransition(on, flip, letter.New("off"), off)
	return m
}

func TestRunFrom(t *testing.T) {
	m := buildFlipFlop()
	out, visited, err := m.Run(letter.NewWord(letter.New("flip"), letter.New("flip"), letter.New("flip")))
	if err != nil {
		t.Fatal(err)
	}
	want := letter.NewWord(letter.New("on"), letter.New("off"), letter.New("on"))
	if !out.Equal(want) {
		t.Fatalf("output = %v, want %v", out, want)
	}
	if len(visited) != 4 {
		t.Fatalf("len(visited) = %d, want 4", len(visited))
	}
}

func TestValidateRejectsPartialMachine(t *testing.T) {
	m := New([]letter.Letter{letter.New("a"), letter.New("b")})
	s0 := m.AddState("s0")
	m.SetInitial(s0)
	m.AddTransition(s0, letter.New("a"), letter.New("x"), s0)
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to fail: no transition defined for input b")
	}
}

func TestStepUnknownState(t *testing.T) {
	m := buildFlipFlop()
	if _, _, ok := m.Step(StateIndex(99), letter.New("flip")); ok {
		t.Fatal("expected Step on an out-of-range state to fail")
	}
}
