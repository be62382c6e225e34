// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

// runRange is a half-open range [start, end) of absolute path positions
// covered by the longest run of consecutively-matching query characters
// ending at the most recent match.
type runRange struct {
	start, end int
}

func (r runRange) span() uint32 {
	return uint32(r.end - r.start)
}

// dpState is the best score found so far for matching the query's first
// j+1 characters against some prefix of the path seen.
type dpState struct {
	score uint32
	run   runRange
}

// Matcher holds the incremental DP state for scoring one query against a
// stream of path characters. A Matcher is cheap and single-use: construct
// one per root directory walked (see Search), never share one across
// unrelated roots.
type Matcher struct {
	query   *Query
	states  []dpState
	matched CharSet
	length  int
}

// NewMatcher returns a Matcher ready to advance over path characters. It
// returns ErrInvalidMaxResults if maxResults is less than 1, to fail a
// misconfigured caller close to the mistake even though Matcher itself
// does not hold the result heap.
func NewMatcher(q *Query, maxResults int) (*Matcher, error) {
	if maxResults < 1 {
		return nil, ErrInvalidMaxResults
	}
	return &Matcher{
		query:  q,
		states: make([]dpState, q.Len()),
	}, nil
}

type matcherSnapshot struct {
	states  []dpState
	matched CharSet
	length  int
}

func (m *Matcher) snapshot() matcherSnapshot {
	states := make([]dpState, len(m.states))
	copy(states, m.states)
	return matcherSnapshot{states: states, matched: m.matched, length: m.length}
}

func (m *Matcher) restore(s matcherSnapshot) {
	copy(m.states, s.states)
	m.matched = s.matched
	m.length = s.length
}

// advanceChar folds one path byte, at absolute position i with the given
// positional bonus, into the DP. rootStart is true only for the very first
// character of a root directory's own name — the sole position eligible
// for the start-of-path bonus.
func (m *Matcher) advanceChar(i int, b byte, bonus byte, rootStart bool) {
	for _, qc := range m.query.MatchesForChar(b) {
		j := int(qc.Index)
		score := uint32(qc.Points) + uint32(bonus)
		run := runRange{i, i + 1}

		if j > 0 {
			prev := m.states[j-1]
			if prev.score == 0 {
				continue
			}
			score += prev.score
			if prev.run.end == i {
				score += prev.run.span() * 5
				run = runRange{prev.run.start, i + 1}
			}
		} else if rootStart {
			score += 3
		}

		if score > m.states[j].score {
			m.states[j] = dpState{score: score, run: run}
			m.matched.AddByte(b)
		}
	}
}

// advance folds a run of PChars into the DP, in order, starting at the
// matcher's current length.
func (m *Matcher) advance(chars []PChar, isRoot bool) {
	for idx, pch := range chars {
		m.advanceChar(m.length+idx, pch.Byte, pch.Bonus, isRoot && idx == 0)
	}
	m.length += len(chars)
}

var pathSeparator = PChar{Byte: '/', Bonus: 0}

// advanceComponent advances by one PathComponent. Unless isRoot, it first
// folds in a synthetic separator character — the Arena stores each
// component's characters without the slash that joins it to its parent, so
// the matcher must supply that join point itself. For a root, position 0
// is reserved for the conceptual start-of-path instead, so the root's own
// characters begin at absolute position 1.
func (m *Matcher) advanceComponent(arena *Arena, pc PathComponent, isRoot bool) {
	if !isRoot {
		m.advance([]PChar{pathSeparator}, false)
	} else {
		m.length++
	}
	m.advance(arena.PathIter(pc), isRoot)
}

// score advances by comp (never a root) and returns the resulting score
// for the full query, leaving the matcher's state advanced. Callers that
// only want a trial score must snapshot/restore around the call.
func (m *Matcher) score(arena *Arena, comp PathComponent) uint32 {
	m.advanceComponent(arena, comp, false)
	return m.states[len(m.states)-1].score
}

// Walk descends the directory tree rooted at d in pre-order, scoring every
// file against the query and offering non-zero matches to heap. isRoot
// must be true only for a forest root. Before touching any file or child,
// Walk prunes using the CharSet covering check of §4.5: a subtree cannot
// complete the query unless its reachable characters, plus what's already
// matched, cover every query character.
func (m *Matcher) Walk(arena *Arena, d *Directory, isRoot bool, path string, heap *ResultHeap) {
	m.advanceComponent(arena, d.Name, isRoot)
	if !isRoot {
		path += "/"
	}
	path += arena.PathText(d.Name)

	saved := m.snapshot()

	for _, f := range arena.FilesOf(d) {
		cs := f.CharSet
		cs.Union(m.matched)
		if !m.query.CoveredBy(cs) {
			continue
		}
		score := m.score(arena, f)
		m.restore(saved)
		if score == 0 {
			continue
		}
		heap.Offer(Match{Score: score, Path: path + "/" + arena.PathText(f)})
	}

	dirs := arena.DirsOf(d)
	for i := range dirs {
		child := &dirs[i]
		cs := child.CharSet
		cs.Union(m.matched)
		if !m.query.CoveredBy(cs) {
			continue
		}
		m.Walk(arena, child, false, path, heap)
		m.restore(saved)
	}
}

// Search runs q against every root in the forest, returning a heap holding
// the maxResults highest-scoring matches. Each root is walked with its own
// fresh Matcher, matching the original server's per-root matcher
// construction — state never carries over between independent roots.
func Search(arena *Arena, roots []Directory, q *Query, maxResults int) (*ResultHeap, error) {
	heap := NewResultHeap(maxResults)
	for i := range roots {
		m, err := NewMatcher(q, maxResults)
		if err != nil {
			return nil, err
		}
		m.Walk(arena, &roots[i], true, "", heap)
	}
	return heap, nil
}
