// Package mealygen emits standalone Go source implementing a learned
// Mealy machine, so a learned protocol model can be embedded into a test
// harness without linking this module. Adapted from the Mealy branch of
// a generic FSM-to-Go code generator.
package mealygen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gbossert/pylstar/pkg/mealy"
)

// Go generates a Go source file in package pkgName defining a type named
// typeName that replays m: its Step(input string) (output string, ok bool)
// method advances the current state and reports whether input was valid.
func Go(m *mealy.Machine, pkgName, typeName string) string {
	if pkgName == "" {
		pkgName = "learned"
	}
	if typeName == "" {
		typeName = "Machine"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// Code generated from a learned Mealy machine. DO NOT EDIT.\n\npackage %s\n\n", pkgName)

	fmt.Fprintf(&sb, "// %s replays a learned Mealy machine step by step.\n", typeName)
	fmt.Fprintf(&sb, "type %s struct {\n\tstate string\n}\n\n", typeName)

	fmt.Fprintf(&sb, "// New%s returns a fresh machine in its initial state.\n", typeName)
	fmt.Fprintf(&sb, "func New%s() *%s {\n\treturn &%s{state: %q}\n}\n\n", typeName, typeName, typeName, m.Name(m.Initial()))

	fmt.Fprintf(&sb, "// State returns the current state name.\n")
	fmt.Fprintf(&sb, "func (f *%s) State() string { return f.state }\n\n", typeName)

	fmt.Fprintf(&sb, "// Reset returns the machine to its initial state.\n")
	fmt.Fprintf(&sb, "func (f *%s) Reset() { f.state = %q }\n\n", typeName, m.Name(m.Initial()))

	fmt.Fprintf(&sb, "// Step applies input from the current state and returns the emitted\n")
	fmt.Fprintf(&sb, "// output and whether the input was valid from that state.\n")
	fmt.Fprintf(&sb, "func (f *%s) Step(input string) (output string, ok bool) {\n", typeName)
	sb.WriteString("\tswitch f.state {\n")

	byState := make(map[string][]mealy.Edge)
	var stateOrder []string
	for s := 0; s < m.NumStates(); s++ {
		name := m.Name(mealy.StateIndex(s))
		stateOrder = append(stateOrder, name)
		byState[name] = m.Transitions(mealy.StateIndex(s))
	}

	for _, name := range stateOrder {
		fmt.Fprintf(&sb, "\tcase %q:\n\t\tswitch input {\n", name)
		for _, e := range byState[name] {
			fmt.Fprintf(&sb, "\t\tcase %q:\n\t\t\tf.state = %q\n\t\t\treturn %q, true\n", e.Input.String(), m.Name(e.To), e.Output.String())
		}
		sb.WriteString("\t\t}\n")
	}

	sb.WriteString("\t}\n\treturn \"\", false\n}\n")
	return sb.String()
}

// SanitizeIdent turns an arbitrary label into a valid exported Go
// identifier fragment, for callers that want to derive typeName from a
// machine's Name or session ID rather than passing one explicitly.
func SanitizeIdent(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "Machine"
	}
	return b.String()
}
