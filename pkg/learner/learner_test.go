package learner

import (
	"context"
	"errors"
	"testing"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
	"github.com/gbossert/pylstar/pkg/oracle"
)

func buildEcho() *mealy.Machine {
	a, b := letter.New("a"), letter.New("b")
	m := mealy.New([]letter.Letter{a, b})
	q0 := m.AddState("q0")
	m.SetInitial(q0)
	m.AddTransition(q0, a, letter.New("1"), q0)
	m.AddTransition(q0, b, letter.New("1"), q0)
	return m
}

func buildFlipFlop() *mealy.Machine {
	tLetter := letter.New("t")
	m := mealy.New([]letter.Letter{tLetter})
	q0 := m.AddState("q0")
	q1 := m.AddState("q1")
	m.SetInitial(q0)
	m.AddTransition(q0, tLetter, letter.New("0"), q1)
	m.AddTransition(q1, tLetter, letter.New("1"), q0)
	return m
}

func buildCoffeeMachine() *mealy.Machine {
	refillWater := letter.New("REFILL_WATER")
	refillCoffee := letter.New("REFILL_COFFEE")
	pressA := letter.New("PRESS_A")
	pressB := letter.New("PRESS_B")
	pressC := letter.New("PRESS_C")
	alphabet := []letter.Letter{refillWater, refillCoffee, pressA, pressB, pressC}

	ok := letter.New("OK")
	errOut := letter.New("ERROR")
	coffee := letter.New("COFFEE")

	m := mealy.New(alphabet)
	empty := m.AddState("empty")
	haveWater := m.AddState("have-water")
	haveCoffee := m.AddState("have-coffee")
	both := m.AddState("both")

	m.SetInitial(empty)

	m.AddTransition(empty, refillWater, ok, haveWater)
	m.AddTransition(empty, refillCoffee, ok, haveCoffee)
	m.AddTransition(empty, pressA, errOut, empty)
	m.AddTransition(empty, pressB, errOut, empty)
	m.AddTransition(empty, pressC, errOut, empty)

	m.AddTransition(haveWater, refillWater, ok, haveWater)
	m.AddTransition(haveWater, refillCoffee, ok, both)
	m.AddTransition(haveWater, pressA, errOut, haveWater)
	m.AddTransition(haveWater, pressB, errOut, haveWater)
	m.AddTransition(haveWater, pressC, errOut, haveWater)

	m.AddTransition(haveCoffee, refillWater, ok, both)
	m.AddTransition(haveCoffee, refillCoffee, ok, haveCoffee)
	m.AddTransition(haveCoffee, pressA, errOut, haveCoffee)
	m.AddTransition(haveCoffee, pressB, errOut, haveCoffee)
	m.AddTransition(haveCoffee, pressC, errOut, haveCoffee)

	m.AddTransition(both, refillWater, ok, both)
	m.AddTransition(both, refillCoffee, ok, both)
	m.AddTransition(both, pressA, coffee, empty)
	m.AddTransition(both, pressB, errOut, both)
	m.AddTransition(both, pressC, errOut, both)

	return m
}

// buildFourStateCounter is a simple four-state target used to exercise
// the state-bound-exceeded path: it counts "inc" inputs modulo four,
// emitting the running count as its output.
func buildFourStateCounter() *mealy.Machine {
	inc := letter.New("inc")
	m := mealy.New([]letter.Letter{inc})
	s0 := m.AddState("0")
	s1 := m.AddState("1")
	s2 := m.AddState("2")
	s3 := m.AddState("3")
	m.SetInitial(s0)
	m.AddTransition(s0, inc, letter.New("1"), s1)
	m.AddTransition(s1, inc, letter.New("2"), s2)
	m.AddTransition(s2, inc, letter.New("3"), s3)
	m.AddTransition(s3, inc, letter.New("0"), s0)
	return m
}

func learnScenario(t *testing.T, target *mealy.Machine, maxStates int) *mealy.Machine {
	t.Helper()
	mem := knowledge.NewActiveOracle(knowledge.NewFixtureTarget(target), nil)
	eq := oracle.WMethod{MaxStates: maxStates}
	l := New(target.Alphabet(), mem, eq, maxStates)
	hyp, err := l.Learn(context.Background())
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	return hyp
}

// Scenario A: single-state echo machine.
func TestScenarioEcho(t *testing.T) {
	hyp := learnScenario(t, buildEcho(), 8)
	if hyp.NumStates() != 1 {
		t.Fatalf("NumStates = %d, want 1", hyp.NumStates())
	}
}

// Scenario B: flip-flop.
func TestScenarioFlipFlop(t *testing.T) {
	hyp := learnScenario(t, buildFlipFlop(), 8)
	if hyp.NumStates() != 2 {
		t.Fatalf("NumStates = %d, want 2", hyp.NumStates())
	}

	tLetter := letter.New("t")
	out, _, err := hyp.Run(letter.NewWord(tLetter, tLetter, tLetter))
	if err != nil {
		t.Fatal(err)
	}
	want := letter.NewWord(letter.New("0"), letter.New("1"), letter.New("0"))
	if !out.Equal(want) {
		t.Fatalf("play(ttt) = %v, want %v", out, want)
	}
}

// Scenario C: coffee machine.
func TestScenarioCoffeeMachine(t *testing.T) {
	hyp := learnScenario(t, buildCoffeeMachine(), 8)
	if hyp.NumStates() != 4 {
		t.Fatalf("NumStates = %d, want 4", hyp.NumStates())
	}
}

// Scenario D: counterexample integration forces state discovery. The
// observation-table-level mechanics (a deliberately under-closed table
// that starts one-state and grows once a counterexample is integrated)
// are exercised directly in pkg/table, which has access to the table's
// internal row-filling helpers needed to construct that fixture; here we
// just confirm the end-to-end learner converges on the right state count
// for the same target, counterexample or not.
func TestScenarioCounterexampleIntegrationConverges(t *testing.T) {
	hyp := learnScenario(t, buildFlipFlop(), 8)
	if hyp.NumStates() != 2 {
		t.Fatalf("NumStates = %d, want 2", hyp.NumStates())
	}
}

// Scenario E: state bound exceeded.
func TestScenarioStateBoundExceeded(t *testing.T) {
	ctx := context.Background()
	target := buildFourStateCounter()
	mem := knowledge.NewActiveOracle(knowledge.NewFixtureTarget(target), nil)
	eq := oracle.WMethod{MaxStates: 2}
	l := New(target.Alphabet(), mem, eq, 2)

	_, err := l.Learn(ctx)
	if err == nil {
		t.Fatal("expected learning to fail once the hypothesis exceeds the state bound")
	}
	if !errors.Is(err, ErrStateBoundExceeded) {
		t.Fatalf("err = %v, want ErrStateBoundExceeded", err)
	}
}

// Scenario F: W-method determinism - two independent learning runs over
// the same deterministic target and bound must agree on state count and
// on the output of a probe word that brews a coffee.
func TestScenarioWMethodDeterminism(t *testing.T) {
	hyp1 := learnScenario(t, buildCoffeeMachine(), 8)
	hyp2 := learnScenario(t, buildCoffeeMachine(), 8)

	if hyp1.NumStates() != hyp2.NumStates() {
		t.Fatalf("state counts differ: %d vs %d", hyp1.NumStates(), hyp2.NumStates())
	}

	pressA := letter.New("PRESS_A")
	refillWater := letter.New("REFILL_WATER")
	refillCoffee := letter.New("REFILL_COFFEE")
	probe := letter.NewWord(refillWater, refillCoffee, pressA)

	out1, _, err := hyp1.Run(probe)
	if err != nil {
		t.Fatal(err)
	}
	out2, _, err := hyp2.Run(probe)
	if err != nil {
		t.Fatal(err)
	}
	if !out1.Equal(out2) {
		t.Fatalf("two learning runs disagreed on probe output: %v vs %v", out1, out2)
	}
}
