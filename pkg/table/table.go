// Package table implements the L* observation table: the rectangular
// grid of membership-query answers an L* learner closes and makes
// consistent on its way to a hypothesis, grounded on pylstar's
// ObservationTable.
package table

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
)

// Table is the observation table over an input alphabet: S (short
// prefixes), SA (the one-letter extensions of S forming the frontier),
// and E (distinguishing suffixes, never containing the empty word — see
// DESIGN.md's Open Question on empty-suffix handling). Rows are indexed
// by word key; T maps a row's word key and a suffix's word key to the
// single output letter observed for that combination.
type Table struct {
	alphabet []letter.Letter
	oracle   knowledge.Oracle
	log      *zap.Logger

	s  []letter.Word // ordered, no duplicates
	sa []letter.Word // ordered, no duplicates, disjoint from s
	e  []letter.Word // ordered, no duplicates, never contains letter.Empty

	content map[string]map[string]letter.Letter // rowKey -> suffixKey -> output
}

// New creates an empty table over alphabet. Initialize then seeds it with
// the empty short prefix and one one-letter suffix per alphabet letter —
// pylstar's __initialize, which seeds E with the singleton words formed
// from the alphabet so the very first row already distinguishes on
// immediate output.
func New(alphabet []letter.Letter, oracle knowledge.Oracle, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{
		alphabet: append([]letter.Letter(nil), alphabet...),
		oracle:   oracle,
		log:      log,
		content:  make(map[string]map[string]letter.Letter),
	}
	return t
}

// Initialize populates S = {ε}, SA = {one letter per alphabet symbol},
// E = {one letter per alphabet symbol}, and queries every required cell.
func (t *Table) Initialize(ctx context.Context) error {
	if err := t.addToS(ctx, letter.Empty); err != nil {
		return err
	}
	for _, a := range t.alphabet {
		w := letter.NewWord(a)
		if err := t.addToE(ctx, w); err != nil {
			return err
		}
		if err := t.addToSA(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) rowKey(w letter.Word) string { return w.Key() }

func contains(words []letter.Word, w letter.Word) bool {
	for _, x := range words {
		if x.Equal(w) {
			return true
		}
	}
	return false
}

// addToS records w as a short prefix, removing it from SA if present, and
// fills in any missing cells for it.
func (t *Table) addToS(ctx context.Context, w letter.Word) error {
	if contains(t.s, w) {
		return nil
	}
	t.s = append(t.s, w)
	t.removeFromSA(w)
	return t.fillRow(ctx, w)
}

// addToSA records w as a frontier word.
func (t *Table) addToSA(ctx context.Context, w letter.Word) error {
	if contains(t.s, w) || contains(t.sa, w) {
		return nil
	}
	t.sa = append(t.sa, w)
	return t.fillRow(ctx, w)
}

func (t *Table) removeFromSA(w letter.Word) {
	for i, x := range t.sa {
		if x.Equal(w) {
			t.sa = append(t.sa[:i], t.sa[i+1:]...)
			return
		}
	}
}

// addToE records w as a distinguishing suffix and fills every row (S and
// SA) for it. w must be non-empty.
func (t *Table) addToE(ctx context.Context, w letter.Word) error {
	if w.Len() == 0 {
		return fmt.Errorf("table: suffix word must not be empty")
	}
	if contains(t.e, w) {
		return nil
	}
	t.e = append(t.e, w)
	for _, row := range t.allRows() {
		if err := t.fillCell(ctx, row, w); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) allRows() []letter.Word {
	rows := make([]letter.Word, 0, len(t.s)+len(t.sa))
	rows = append(rows, t.s...)
	rows = append(rows, t.sa...)
	return rows
}

func (t *Table) fillRow(ctx context.Context, row letter.Word) error {
	for _, suf := range t.e {
		if err := t.fillCell(ctx, row, suf); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) fillCell(ctx context.Context, row, suf letter.Word) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	rk := t.rowKey(row)
	rowMap, ok := t.content[rk]
	if !ok {
		rowMap = make(map[string]letter.Letter)
		t.content[rk] = rowMap
	}
	sk := suf.Key()
	if _, ok := rowMap[sk]; ok {
		return nil
	}
	query := row.Concat(suf)
	out, err := t.oracle.Resolve(ctx, query)
	if err != nil {
		return err
	}
	// The last letter of the response corresponds to the suffix's final
	// input letter, matching pylstar's convention of reading the cell
	// value off the tail of the full output word.
	rowMap[sk] = out.LastLetter()
	return nil
}

func (t *Table) row(w letter.Word) []letter.Letter {
	rowMap := t.content[t.rowKey(w)]
	out := make([]letter.Letter, len(t.e))
	for i, suf := range t.e {
		out[i] = rowMap[suf.Key()]
	}
	return out
}

func rowEqual(a, b []letter.Letter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsClosed reports whether every row in SA equals some row in S.
func (t *Table) IsClosed() (closed bool, unmatched letter.Word) {
	for _, sa := range t.sa {
		saRow := t.row(sa)
		found := false
		for _, s := range t.s {
			if rowEqual(saRow, t.row(s)) {
				found = true
				break
			}
		}
		if !found {
			return false, sa
		}
	}
	return true, letter.Empty
}

// Close moves one unmatched SA row into S (and its alphabet extensions
// into SA), repeating IsClosed's check is the caller's responsibility —
// Close performs exactly one step, matching pylstar's close_table, which
// the learner calls in a loop alongside MakeConsistent until both settle.
func (t *Table) Close(ctx context.Context, unmatched letter.Word) error {
	if err := t.addToS(ctx, unmatched); err != nil {
		return err
	}
	for _, a := range t.alphabet {
		if err := t.addToSA(ctx, unmatched.Concat(letter.NewWord(a))); err != nil {
			return err
		}
	}
	return nil
}

// Inconsistency names a pair of short prefixes whose rows agree but whose
// one-letter extensions disagree on some suffix — the defect
// MakeConsistent repairs by adding a new distinguishing suffix.
type Inconsistency struct {
	S1, S2 letter.Word
	Input  letter.Letter
	Suffix letter.Word
}

// FindInconsistency searches S for two prefixes with equal rows whose
// extension by some alphabet letter disagrees on some existing suffix.
func (t *Table) FindInconsistency() (Inconsistency, bool) {
	for i := 0; i < len(t.s); i++ {
		for j := i + 1; j < len(t.s); j++ {
			s1, s2 := t.s[i], t.s[j]
			if !rowEqual(t.row(s1), t.row(s2)) {
				continue
			}
			for _, a := range t.alphabet {
				w1 := s1.Concat(letter.NewWord(a))
				w2 := s2.Concat(letter.NewWord(a))
				row1, row2 := t.row(w1), t.row(w2)
				for k, suf := range t.e {
					if !row1[k].Equal(row2[k]) {
						return Inconsistency{S1: s1, S2: s2, Input: a, Suffix: suf}, true
					}
				}
			}
		}
	}
	return Inconsistency{}, false
}

// MakeConsistent resolves inc by adding input.suffix as a new
// distinguishing suffix, matching pylstar's make_consistent.
func (t *Table) MakeConsistent(ctx context.Context, inc Inconsistency) error {
	newSuffix := letter.NewWord(inc.Input).Concat(inc.Suffix)
	return t.addToE(ctx, newSuffix)
}

// AddCounterexample integrates a counterexample word and all of its
// prefixes into S, per Angluin's prefix-closure scheme: every prefix of
// the counterexample (including the counterexample itself) is added to
// S, and its one-letter extensions to SA, so the next closure pass can
// discover the missing states. See DESIGN.md for why this is used
// instead of Rivest-Schapire suffix decomposition.
func (t *Table) AddCounterexample(ctx context.Context, counterexample letter.Word) error {
	for n := 1; n <= counterexample.Len(); n++ {
		prefix := counterexample.Prefix(n)
		if err := t.addToS(ctx, prefix); err != nil {
			return err
		}
	}
	for _, s := range append([]letter.Word(nil), t.s...) {
		for _, a := range t.alphabet {
			if err := t.addToSA(ctx, s.Concat(letter.NewWord(a))); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildHypothesis synthesizes a Mealy machine from the current table.
// The table must be closed and consistent; callers are expected to loop
// IsClosed/Close/FindInconsistency/MakeConsistent to a fixpoint first.
func (t *Table) BuildHypothesis() (*mealy.Machine, error) {
	m := mealy.New(t.alphabet)

	// One state per distinct row value among S, named after the shortest
	// S-word sharing that row, ties broken by insertion order into S.
	repOf := make(map[string]mealy.StateIndex) // rowKey -> state
	wordState := make(map[string]mealy.StateIndex)

	byLength := append([]letter.Word(nil), t.s...)
	sort.SliceStable(byLength, func(i, j int) bool {
		return byLength[i].Len() < byLength[j].Len()
	})
	for _, s := range byLength {
		rk := rowValueKey(t.row(s))
		if _, ok := repOf[rk]; !ok {
			repOf[rk] = m.AddState(s.String())
		}
	}
	for _, s := range t.s {
		wordState[s.Key()] = repOf[rowValueKey(t.row(s))]
	}

	emptyRowKey := rowValueKey(t.row(letter.Empty))
	initial, ok := repOf[emptyRowKey]
	if !ok {
		return nil, fmt.Errorf("table: no state found for the empty access word")
	}
	m.SetInitial(initial)

	destOf := func(w letter.Word) (mealy.StateIndex, error) {
		rk := rowValueKey(t.row(w))
		idx, ok := repOf[rk]
		if !ok {
			return mealy.None, fmt.Errorf("table: no representative state for row of %q (table not closed)", w)
		}
		return idx, nil
	}

	for _, s := range t.s {
		from := wordState[s.Key()]
		for _, a := range t.alphabet {
			ext := s.Concat(letter.NewWord(a))
			out := t.firstLetterOutput(s, a)
			dest, err := destOf(ext)
			if err != nil {
				return nil, err
			}
			m.AddTransition(from, a, out, dest)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("table: built hypothesis failed validation: %w", err)
	}
	return m, nil
}

// firstLetterOutput returns the immediate output of stepping on `a` from
// access word s, read off the table the way pylstar reads
// ot_content[Word([input_letter])][word]: the cell at row s, suffix `a`.
// Every alphabet letter is seeded into E as a singleton suffix by
// Initialize and is never removed, so this column always exists.
func (t *Table) firstLetterOutput(s letter.Word, a letter.Letter) letter.Letter {
	row := t.content[t.rowKey(s)]
	if row == nil {
		return letter.Epsilon
	}
	return row[letter.NewWord(a).Key()]
}

// rowValueKey identifies a row by its cell values in E's fixed order.
// Order matters here and must not be sorted: two rows are the same state
// only if they agree suffix-by-suffix in E's own order. Each cell key is
// prefixed with its byte length, so letter contents that include the
// separator byte cannot make two different rows collide.
func rowValueKey(row []letter.Letter) string {
	out := ""
	for _, l := range row {
		k := l.Key()
		out += strconv.Itoa(len(k)) + ":" + k + "\x1f"
	}
	return out
}

// S returns the current short-prefix set in insertion order.
func (t *Table) S() []letter.Word { return append([]letter.Word(nil), t.s...) }

// SA returns the current frontier set in insertion order.
func (t *Table) SA() []letter.Word { return append([]letter.Word(nil), t.sa...) }

// E returns the current suffix set in insertion order.
func (t *Table) E() []letter.Word { return append([]letter.Word(nil), t.e...) }
