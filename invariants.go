package movetree

import (
	"errors"
	"fmt"
)

// ErrCorrupt is returned by Validate for a store that breaks its linkage
// rules.
var ErrCorrupt = errors.New("movetree: corrupt move tree")

// Validate checks the store: every live move is reached exactly once, as
// the first move, as a continuation or as a variation; links never touch
// deleted moves; prev links agree with the links that reach a move; and
// move numbers advance with the side to move.
func (g *Game) Validate() error {
	refs := make([]int, len(g.moves))
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
	}
	ref := func(from, to Index) error {
		if !g.live(to) {
			return corrupt("move %d links to missing or deleted move %d", from, to)
		}
		refs[to]++
		return nil
	}

	if g.first != NoIndex {
		if err := ref(NoIndex, g.first); err != nil {
			return err
		}
		if p := g.moves[g.first].prev; p != NoIndex {
			return corrupt("first move %d has prev %d", g.first, p)
		}
	}

	for j := range g.moves {
		m := &g.moves[j]
		if m.deleted {
			continue
		}
		i := Index(j)
		if m.index != i {
			return corrupt("move %d stored at %d", m.index, i)
		}
		if m.next != NoIndex {
			if err := ref(i, m.next); err != nil {
				return err
			}
			n := &g.moves[m.next]
			if n.prev != i {
				return corrupt("move %d continues %d but has prev %d", m.next, i, n.prev)
			}
			if err := followsNumbering(m, n); err != nil {
				return corrupt("move %d after %d: %v", m.next, i, err)
			}
		}
		for _, v := range m.variations {
			if err := ref(i, v); err != nil {
				return err
			}
			alt := &g.moves[v]
			if alt.prev != m.prev {
				return corrupt("variation %d of %d has prev %d, want %d", v, i, alt.prev, m.prev)
			}
			if alt.turn != m.turn || alt.moveNumber != m.moveNumber {
				return corrupt("variation %d is not an alternative to %d", v, i)
			}
		}
	}

	for j, n := range refs {
		if g.moves[j].deleted {
			continue
		}
		if n != 1 {
			return corrupt("move %d is reached %d times", j, n)
		}
	}

	// Reaching every live move exactly once from the links above still
	// allows a detached cycle; a walk from the first move rules it out.
	seen := 0
	g.walk(g.first, func(*Move) { seen++ })
	live := 0
	for _, m := range g.moves {
		if !m.deleted {
			live++
		}
	}
	if seen != live {
		return corrupt("%d of %d moves are unreachable", live-seen, live)
	}
	return nil
}

func followsNumbering(m, n *Move) error {
	want, number := Black, m.moveNumber
	if m.turn == Black {
		want, number = White, m.moveNumber+1
	}
	if n.turn != want || n.moveNumber != number {
		return fmt.Errorf("numbered %d %s, want %d %s", n.moveNumber, n.turn.Name(), number, want.Name())
	}
	return nil
}
