package mealygen

import (
	"strings"
	"testing"

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

func TestGoEmitsCompilableShape(t *testing.T) {
	src := Go(buildFlipFlop(), "learned", "FlipFlop")

	for _, want := range []string{
		"package learned",
		"type FlipFlop struct",
		"func NewFlipFlop() *FlipFlop",
		`case "off":`,
		`case "flip":`,
		`return "on", true`,
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestSanitizeIdent(t *testing.T) {
	cases := map[string]string{
		"coffee machine": "CoffeeMachine",
		"flip-flop":       "FlipFlop",
		"":                "Machine",
	}
	for in, want := range cases {
		if got := SanitizeIdent(in); got != want {
			t.Fatalf("SanitizeIdent(%q) = %q, want %q", in, got, want)
		}
	}
}
