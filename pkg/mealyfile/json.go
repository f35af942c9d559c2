package mealyfile

import (
	"encoding/json"
	"fmt"

	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// jsonMachine is the JSON representation of a Mealy machine. Letters are
// serialized as their string rendering; machines built over non-string
// letters (byte or integer alphabets) do not round-trip through this
// format and should use a format of their own.
type jsonMachine struct {
	States      []string          `json:"states"`
	Alphabet    []string          `json:"alphabet"`
	Initial     string            `json:"initial"`
	Transitions []jsonTransition  `json:"transitions"`
}

type jsonTransition struct {
	From   string `json:"from"`
	Input  string `json:"input"`
	Output string `json:"output"`
	To     string `json:"to"`
}

// Marshal converts m to its JSON representation.
func Marshal(m *mealy.Machine, pretty bool) ([]byte, error) {
	j := jsonMachine{
		Initial: m.Name(m.Initial()),
	}
	for _, a := range m.Alphabet() {
		j.Alphabet = append(j.Alphabet, a.String())
	}
	for s := 0; s < m.NumStates(); s++ {
		j.States = append(j.States, m.Name(mealy.StateIndex(s)))
	}
	for _, e := range m.AllEdges() {
		j.Transitions = append(j.Transitions, jsonTransition{
			From:   m.Name(e.From),
			Input:  e.Input.String(),
			Output: e.Output.String(),
			To:     m.Name(e.To),
		})
	}
	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// Unmarshal parses a Mealy machine from its JSON representation. All
// letters are reconstructed as string letters via letter.New.
func Unmarshal(data []byte) (*mealy.Machine, error) {
	var j jsonMachine
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	alphabet := make([]letter.Letter, len(j.Alphabet))
	for i, a := range j.Alphabet {
		alphabet[i] = letter.New(a)
	}
	m := mealy.New(alphabet)

	stateIndex := make(map[string]mealy.StateIndex, len(j.States))
	for _, name := range j.States {
		stateIndex[name] = m.AddState(name)
	}

	initial, ok := stateIndex[j.Initial]
	if !ok {
		return nil, fmt.Errorf("mealyfile: initial state %q not declared in states", j.Initial)
	}
	m.SetInitial(initial)

	for _, t := range j.Transitions {
		from, ok := stateIndex[t.From]
		if !ok {
			return nil, fmt.Errorf("mealyfile: transition references undeclared state %q", t.From)
		}
		to, ok := stateIndex[t.To]
		if !ok {
			return nil, fmt.Errorf("mealyfile: transition references undeclared state %q", t.To)
		}
		m.AddTransition(from, letter.New(t.Input), letter.New(t.Output), to)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mealyfile: %w", err)
	}
	return m, nil
}
