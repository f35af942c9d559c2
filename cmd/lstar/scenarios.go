package main

import (
	"fmt"

	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// scenario is a built-in target machine the learn/watch commands can
// learn against without a network teacher, covering the single-state
// echo, flip-flop, and coffee-machine fixtures.
type scenario struct {
	name        string
	description string
	build       func() *mealy.Machine
}

var scenarios = []scenario{
	{
		name:        "echo",
		description: "single state, every input echoes itself as output",
		build:       buildEcho,
	},
	{
		name:        "flipflop",
		description: "two states that toggle on every input",
		build:       buildFlipFlop,
	},
	{
		name:        "coffee",
		description: "coin-operated coffee machine with a three-step brew sequence",
		build:       buildCoffeeMachine,
	},
}

func findScenario(name string) (scenario, error) {
	for _, s := range scenarios {
		if s.name == name {
			return s, nil
		}
	}
	return scenario{}, fmt.Errorf("unknown scenario %q", name)
}

func buildEcho() *mealy.Machine {
	alphabet := []letter.Letter{letter.New("a"), letter.New("b")}
	m := mealy.New(alphabet)
	q0 := m.AddState("q0")
	m.SetInitial(q0)
	for _, a := range alphabet {
		m.AddTransition(q0, a, a, q0)
	}
	return m
}

func buildFlipFlop() *mealy.Machine {
	alphabet := []letter.Letter{letter.New("flip")}
	m := mealy.New(alphabet)
	q0 := m.AddState("off")
	q1 := m.AddState("on")
	m.SetInitial(q0)
	m.AddTransition(q0, alphabet[0], letter.New("on"), q1)
	m.AddTransition(q1, alphabet[0], letter.New("off"), q0)
	return m
}

// buildCoffeeMachine models: insert coin -> press brew -> dispense, with a
// cancel input available before brewing starts. Any input out of sequence
// yields an "error" output and leaves the state unchanged: brew or cancel
// while idle stays idle, a second coin while ready stays ready.
func buildCoffeeMachine() *mealy.Machine {
	coin := letter.New("coin")
	brew := letter.New("brew")
	cancel := letter.New("cancel")
	alphabet := []letter.Letter{coin, brew, cancel}

	m := mealy.New(alphabet)
	idle := m.AddState("idle")
	ready := m.AddState("ready")
	m.SetInitial(idle)

	ok := letter.New("ok")
	errOut := letter.New("error")
	dispensed := letter.New("dispensed")
	cancelled := letter.New("cancelled")

	m.AddTransition(idle, coin, ok, ready)
	m.AddTransition(idle, brew, errOut, idle)
	m.AddTransition(idle, cancel, errOut, idle)

	m.AddTransition(ready, coin, errOut, ready)
	m.AddTransition(ready, brew, dispensed, idle)
	m.AddTransition(ready, cancel, cancelled, idle)

	return m
}
