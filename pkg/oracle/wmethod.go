package oracle

import (
	"context"
	"sort"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// WMethod is the W-method equivalence oracle: it builds a test suite
// Z = P . Sigma^{<=m-n} . W, where P is a state cover of the hypothesis,
// W is a characterization set of shortest pairwise-distinguishing
// suffixes, and m is an assumed upper bound on the target's true state
// count. Every word in Z is tried against both hypothesis and target,
// shortest first, until one disagrees or the suite is exhausted.
type WMethod struct {
	// MaxStates bounds the assumed true state count of the target. If
	// smaller than the hypothesis's own state count it is raised to
	// match, so Sigma^{<=m-n} never ranges over a negative exponent.
	MaxStates int
}

func (o WMethod) Check(ctx context.Context, hyp *mealy.Machine, target knowledge.Oracle) (Verdict, error) {
	n := hyp.NumStates()
	m := o.MaxStates
	if m < n {
		m = n
	}

	w := characterizationSet(hyp, m)
	if len(w) == 0 {
		w = []letter.Word{letter.Empty}
	}
	p := stateCover(hyp)
	mid := wordsUpToLength(hyp.Alphabet(), m-n)

	z := make([]letter.Word, 0, len(p)*len(mid)*len(w))
	seen := make(map[string]bool)
	for _, pw := range p {
		for _, mw := range mid {
			for _, ww := range w {
				cand := pw.Concat(mw).Concat(ww)
				if key := cand.Key(); !seen[key] {
					seen[key] = true
					z = append(z, cand)
				}
			}
		}
	}
	sort.SliceStable(z, func(i, j int) bool { return z[i].Len() < z[j].Len() })

	for _, word := range z {
		if err := ctx.Err(); err != nil {
			return Verdict{}, err
		}
		hypOut, err := runHypothesis(hyp, word)
		if err != nil {
			return Verdict{}, err
		}
		targetOut, err := target.Resolve(ctx, word)
		if err != nil {
			return Verdict{}, err
		}
		if !hypOut.Equal(targetOut) {
			return Verdict{Counterexample: word}, nil
		}
	}
	return Verdict{Equivalent: true}, nil
}

// stateCover performs a breadth-first search over the hypothesis from its
// initial state, recording the shortest access word for every reachable
// state. Mirrors LSTAR's __computesP.
func stateCover(hyp *mealy.Machine) []letter.Word {
	type item struct {
		state mealy.StateIndex
		word  letter.Word
	}
	visited := map[mealy.StateIndex]bool{hyp.Initial(): true}
	cover := []letter.Word{letter.Empty}
	queue := []item{{state: hyp.Initial(), word: letter.Empty}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range hyp.Alphabet() {
			_, dest, ok := hyp.Step(cur.state, a)
			if !ok || visited[dest] {
				continue
			}
			visited[dest] = true
			w := cur.word.Concat(letter.NewWord(a))
			cover = append(cover, w)
			queue = append(queue, item{state: dest, word: w})
		}
	}
	return cover
}

// characterizationSet finds, for every pair of distinct hypothesis
// states, a shortest suffix that produces different output when run from
// each of the two states, and returns the set of such suffixes found.
// Mirrors LSTAR's __compute_distinguishable_string, bounded by maxStates
// squared candidate probes per pair.
func characterizationSet(hyp *mealy.Machine, maxStates int) []letter.Word {
	n := hyp.NumStates()
	var w []letter.Word
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			word, ok := distinguishingSuffix(hyp, mealy.StateIndex(i), mealy.StateIndex(j), maxStates)
			if ok && !seen[word.Key()] {
				seen[word.Key()] = true
				w = append(w, word)
			}
		}
	}
	return w
}

func distinguishingSuffix(hyp *mealy.Machine, i, j mealy.StateIndex, maxStates int) (letter.Word, bool) {
	bound := maxStates * maxStates
	if bound < 1 {
		bound = 1
	}
	alphabet := hyp.Alphabet()
	queue := make([]letter.Word, 0, len(alphabet))
	for _, a := range alphabet {
		queue = append(queue, letter.NewWord(a))
	}
	tried := 0
	for len(queue) > 0 && tried < bound {
		word := queue[0]
		queue = queue[1:]
		tried++

		oi, _, erri := hyp.RunFrom(i, word)
		oj, _, errj := hyp.RunFrom(j, word)
		if erri == nil && errj == nil && !oi.Equal(oj) {
			return word, true
		}
		if word.Len() < maxStates {
			for _, a := range alphabet {
				queue = append(queue, word.Concat(letter.NewWord(a)))
			}
		}
	}
	return letter.Empty, false
}

// wordsUpToLength enumerates every word over alphabet of length 0..k
// inclusive. Check passes the gap between the assumed bound and the
// hypothesis's current state count as k; the result holds
// |alphabet|^k words of the longest length alone, so it grows
// exponentially in k.
func wordsUpToLength(alphabet []letter.Letter, k int) []letter.Word {
	words := []letter.Word{letter.Empty}
	if k <= 0 {
		return words
	}
	frontier := []letter.Word{letter.Empty}
	for length := 1; length <= k; length++ {
		next := make([]letter.Word, 0, len(frontier)*len(alphabet))
		for _, w := range frontier {
			for _, a := range alphabet {
				nw := w.Concat(letter.NewWord(a))
				words = append(words, nw)
				next = append(next, nw)
			}
		}
		frontier = next
	}
	return words
}
