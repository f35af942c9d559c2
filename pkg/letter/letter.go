// Package letter implements the tagged values and immutable sequences that
// flow between a learner and its teacher: Letter and Word.
package letter

import "strconv"

// Letter is a single symbol of an input or output alphabet. Two letters are
// equal when their Key values are equal, so a Letter can wrap anything the
// target protocol speaks in — a textual command, a raw byte string, an
// integer opcode — as long as it can render a stable, unambiguous key.
type Letter struct {
	key   string
	value interface{}
}

// New builds a Letter from a string symbol. This is the common case: textual
// protocol commands, opcodes rendered as names, menu choices.
func New(symbol string) Letter {
	return Letter{key: "s:" + symbol, value: symbol}
}

// NewBytes builds a Letter carrying a raw byte-string value, keyed on the
// raw bytes themselves so two byte-identical values always compare equal.
func NewBytes(b []byte) Letter {
	return Letter{key: "b:" + string(b), value: append([]byte(nil), b...)}
}

// NewInt builds a Letter carrying an integer opcode.
func NewInt(n int) Letter {
	return Letter{key: "i:" + strconv.Itoa(n), value: n}
}

// Epsilon is the internal-only identity letter. It is never part of a
// declared alphabet and never sent to a teacher; Word uses it solely to
// represent "no letters yet" without a nil slice, mirroring how pylstar's
// EmptyLetter anchors an otherwise-empty Word.
var Epsilon = Letter{key: "\x00epsilon", value: nil}

// IsEpsilon reports whether l is the internal empty-word marker.
func (l Letter) IsEpsilon() bool { return l.key == Epsilon.key }

// Key returns a string that uniquely identifies the letter's value, suitable
// for use as a map key or as a component of an observation-table row key.
func (l Letter) Key() string { return l.key }

// Value returns the letter's underlying value.
func (l Letter) Value() interface{} { return l.value }

// Equal reports whether two letters carry the same value.
func (l Letter) Equal(other Letter) bool { return l.key == other.key }

// String renders the letter for logs, DOT labels, and table dumps.
func (l Letter) String() string {
	if l.IsEpsilon() {
		return "ε"
	}
	switch v := l.value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	default:
		return l.key
	}
}
