// Package mealy implements a dense, arena-backed deterministic Mealy
// machine: states are integer indices into a slice, not nodes in a
// reference-cycle graph, so a learned hypothesis can be rebuilt from
// scratch on every L* iteration without tracking stale pointers.
package mealy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gbossert/pylstar/pkg/letter"
)

// StateIndex identifies a state within a Machine's arena.
type StateIndex int

// None is the zero value for an unset StateIndex.
const None StateIndex = -1

type transition struct {
	output letter.Letter
	dest   StateIndex
}

type stateData struct {
	name  string
	trans map[string]transition
}

// Machine is a deterministic Mealy machine over an arena of states.
// It is total once Validate succeeds: every state has an outgoing
// transition for every letter in the alphabet.
type Machine struct {
	states   []stateData
	alphabet []letter.Letter
	initial  StateIndex
}

// New creates an empty machine over the given input alphabet.
func New(alphabet []letter.Letter) *Machine {
	return &Machine{
		alphabet: append([]letter.Letter(nil), alphabet...),
		initial:  None,
	}
}

// Alphabet returns the machine's declared input alphabet.
func (m *Machine) Alphabet() []letter.Letter { return m.alphabet }

// NumStates returns the number of states in the arena.
func (m *Machine) NumStates() int { return len(m.states) }

// Initial returns the initial state index, or None if unset.
func (m *Machine) Initial() StateIndex { return m.initial }

// SetInitial marks s as the initial state.
func (m *Machine) SetInitial(s StateIndex) { m.initial = s }

// AddState allocates a new state with the given display name (metadata
// only — state identity is the returned index) and returns its index.
func (m *Machine) AddState(name string) StateIndex {
	m.states = append(m.states, stateData{name: name, trans: make(map[string]transition)})
	return StateIndex(len(m.states) - 1)
}

// Name returns the display name of state s.
func (m *Machine) Name(s StateIndex) string {
	if int(s) < 0 || int(s) >= len(m.states) {
		return fmt.Sprintf("q%d", s)
	}
	return m.states[s].name
}

// AddTransition records that from, on input, emits output and moves to
// dest. A second call for the same (from, input) pair overwrites the
// first, matching how a hypothesis is rebuilt fresh from an observation
// table rather than incrementally patched.
func (m *Machine) AddTransition(from StateIndex, input letter.Letter, output letter.Letter, dest StateIndex) {
	m.states[from].trans[input.Key()] = transition{output: output, dest: dest}
}

// Step applies a single input letter from state s, returning the emitted
// output letter and the destination state. ok is false if no transition
// is defined — a machine that has passed Validate never returns ok=false.
func (m *Machine) Step(s StateIndex, input letter.Letter) (output letter.Letter, dest StateIndex, ok bool) {
	if int(s) < 0 || int(s) >= len(m.states) {
		return letter.Epsilon, None, false
	}
	t, found := m.states[s].trans[input.Key()]
	if !found {
		return letter.Epsilon, None, false
	}
	return t.output, t.dest, true
}

// Run replays word from the initial state and returns the emitted output
// word along with the sequence of states visited, starting with the
// initial state and ending with the final state reached.
func (m *Machine) Run(word letter.Word) (output letter.Word, visited []StateIndex, err error) {
	return m.RunFrom(m.initial, word)
}

// RunFrom replays word starting at state s.
func (m *Machine) RunFrom(s StateIndex, word letter.Word) (output letter.Word, visited []StateIndex, err error) {
	if s == None {
		return letter.Empty, nil, fmt.Errorf("mealy: no initial state set")
	}
	visited = make([]StateIndex, 0, word.Len()+1)
	visited = append(visited, s)
	outLetters := make([]letter.Letter, 0, word.Len())
	cur := s
	for _, in := range word.Letters() {
		out, dest, ok := m.Step(cur, in)
		if !ok {
			return letter.Empty, visited, fmt.Errorf("mealy: no transition from state %d on %q", cur, in)
		}
		outLetters = append(outLetters, out)
		visited = append(visited, dest)
		cur = dest
	}
	return letter.NewWord(outLetters...), visited, nil
}

// Validate checks that every state has a transition for every letter of
// the declared alphabet and that an initial state is set.
func (m *Machine) Validate() error {
	if m.initial == None {
		return fmt.Errorf("mealy: no initial state set")
	}
	for s := range m.states {
		for _, in := range m.alphabet {
			if _, found := m.states[s].trans[in.Key()]; !found {
				return fmt.Errorf("mealy: state %d (%s) missing transition on %q", s, m.states[s].name, in)
			}
		}
	}
	return nil
}

// Edge is one transition of a Machine: From, on Input, emits Output and
// moves to To.
type Edge struct {
	From   StateIndex
	Input  letter.Letter
	Output letter.Letter
	To     StateIndex
}

// Transitions returns the outgoing transitions of state s in
// alphabet order, for deterministic iteration (DOT export, BFS, etc).
func (m *Machine) Transitions(s StateIndex) []Edge {
	edges := make([]Edge, 0, len(m.alphabet))
	for _, in := range m.alphabet {
		if t, ok := m.states[s].trans[in.Key()]; ok {
			edges = append(edges, Edge{From: s, Input: in, Output: t.output, To: t.dest})
		}
	}
	return edges
}

// AllEdges returns every edge in the machine, states in arena order and
// each state's transitions in alphabet order.
func (m *Machine) AllEdges() []Edge {
	var edges []Edge
	for s := range m.states {
		edges = append(edges, m.Transitions(StateIndex(s))...)
	}
	return edges
}

// String renders a compact textual summary, sorted by state name for
// stable output in logs and tests.
func (m *Machine) String() string {
	var sb strings.Builder
	order := make([]StateIndex, len(m.states))
	for i := range m.states {
		order[i] = StateIndex(i)
	}
	sort.SliceStable(order, func(i, j int) bool { return m.states[order[i]].name < m.states[order[j]].name })
	fmt.Fprintf(&sb, "Machine(%d states, initial=%s)\n", len(m.states), m.Name(m.initial))
	for _, s := range order {
		for _, e := range m.Transitions(s) {
			fmt.Fprintf(&sb, "  %s --%s/%s--> %s\n", m.Name(e.From), e.Input, e.Output, m.Name(e.To))
		}
	}
	return sb.String()
}
