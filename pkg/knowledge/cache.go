package knowledge

import (
	"fmt"

	"github.com/gbossert/pylstar/pkg/letter"
)

// node is one step of a cached input/output prefix, grounded on pylstar's
// KnowledgeNode: each node remembers the output letter observed for the
// input letter leading into it, and branches to its children by the next
// input letter.
type node struct {
	output   letter.Letter
	children map[string]*node
}

func newNode(output letter.Letter) *node {
	return &node{output: output, children: make(map[string]*node)}
}

// Cache is a prefix trie over (input word, output word) observations,
// shared by every membership query so that overlapping prefixes are
// resolved without re-querying the target. A path that reappears with a
// different recorded output is reported via ErrInconsistentObservation
// instead of silently overwritten.
type Cache struct {
	roots map[string]*node
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{roots: make(map[string]*node)}
}

// Lookup returns the cached output word for input, and whether every letter
// of input had a cached answer.
func (c *Cache) Lookup(input letter.Word) (letter.Word, bool) {
	letters := input.Letters()
	if len(letters) == 0 {
		return letter.Empty, true
	}
	children := c.roots
	outs := make([]letter.Letter, 0, len(letters))
	for _, in := range letters {
		n, ok := children[in.Key()]
		if !ok {
			return letter.Empty, false
		}
		outs = append(outs, n.output)
		children = n.children
	}
	return letter.NewWord(outs...), true
}

// Store records that input produced output, letter by letter, and returns
// ErrInconsistentObservation if any prefix already cached a different
// output for the same input letter.
func (c *Cache) Store(input, output letter.Word) error {
	inLetters := input.Letters()
	outLetters := output.Letters()
	if len(inLetters) != len(outLetters) {
		return fmt.Errorf("knowledge: input and output words have different lengths (%d vs %d)", len(inLetters), len(outLetters))
	}
	children := c.roots
	for i, in := range inLetters {
		out := outLetters[i]
		n, ok := children[in.Key()]
		if !ok {
			n = newNode(out)
			children[in.Key()] = n
		} else if !n.output.Equal(out) {
			return fmt.Errorf("%w: input %q previously yielded %q, now %q", ErrInconsistentObservation, in, n.output, out)
		}
		children = n.children
	}
	return nil
}
