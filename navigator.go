package movetree

import (
	"fmt"
	"strconv"
	"strings"
)

// GetMove returns a copy of the move at i.
func (g *Game) GetMove(i Index) (Move, error) {
	if !g.live(i) {
		return Move{}, notFound(i)
	}
	return g.moves[i].clone(), nil
}

// GetMoves returns all moves that are not deleted, in store order.
func (g *Game) GetMoves() []Move {
	moves := make([]Move, 0, len(g.moves))
	for _, m := range g.moves {
		if !m.deleted {
			moves = append(moves, m.clone())
		}
	}
	return moves
}

// GetOrderedMoves returns the moves in the order they are written: each
// move is followed by its variations, depth first, and then by its
// continuation.
func (g *Game) GetOrderedMoves() []Move {
	var moves []Move
	g.walk(g.first, func(m *Move) {
		moves = append(moves, m.clone())
	})
	return moves
}

func (g *Game) walk(head Index, visit func(*Move)) {
	for i := head; i != NoIndex; i = g.moves[i].next {
		m := &g.moves[i]
		visit(m)
		for _, v := range m.variations {
			g.walk(v, visit)
		}
	}
}

// MainLine returns the moves of the main line in play order.
func (g *Game) MainLine() []Move {
	var moves []Move
	for i := g.first; i != NoIndex; i = g.moves[i].next {
		moves = append(moves, g.moves[i].clone())
	}
	return moves
}

// FindMove returns the first move in written order matching label.
// Accepted labels are "#7" for store index 7, a move number such as "12"
// or "12." for White's move, "12..." for Black's, a number with a move as
// in "12. Nf3" or "12... Nf6", a bare move "Nf3", or the position after
// the move.
func (g *Game) FindMove(label string) (Move, error) {
	label = strings.TrimSpace(label)
	if strings.HasPrefix(label, "#") {
		n, err := strconv.Atoi(label[1:])
		if err != nil {
			return Move{}, fmt.Errorf("%w: %q", ErrNotFound, label)
		}
		return g.GetMove(Index(n))
	}

	match := parseLabel(label)
	for _, m := range g.GetOrderedMoves() {
		if match(m) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %q", ErrNotFound, label)
}

func parseLabel(label string) func(Move) bool {
	if strings.Count(label, "/") == 7 {
		return func(m Move) bool { return m.position == label || strings.HasPrefix(m.position, label+" ") }
	}

	number, color, san := 0, NoColor, label
	digits := 0
	for digits < len(label) && isDigit(rune(label[digits])) {
		digits++
	}
	if digits > 0 {
		number, _ = strconv.Atoi(label[:digits])
		rest := label[digits:]
		dots := len(rest) - len(strings.TrimLeft(rest, "."))
		switch {
		case dots >= 3:
			color = Black
		case dots >= 1 || strings.TrimSpace(rest) == "":
			color = White
		}
		san = strings.TrimSpace(rest[dots:])
	}
	san, _ = splitSuffix(san)

	return func(m Move) bool {
		if number > 0 && m.moveNumber != number {
			return false
		}
		if color != NoColor && m.turn != color {
			return false
		}
		return san == "" || m.SAN() == san || strings.TrimRight(m.SAN(), "+#") == strings.TrimRight(san, "+#")
	}
}

// Headers returns a copy of the tag pairs.
func (g *Game) Headers() TagPairs {
	return g.TagPairs()
}

// EndGame returns the Result header or NoOutcome when it is absent.
func (g *Game) EndGame() Outcome {
	if r, ok := g.tagPairs["Result"]; ok {
		return parseOutcome(r)
	}
	return NoOutcome
}

// IsDeleted reports whether i is a tombstone. Unknown indices are not.
func (g *Game) IsDeleted(i Index) bool {
	return i >= 0 && int(i) < len(g.moves) && g.moves[i].deleted
}

// First returns the first main line move.
func (g *Game) First() Index {
	return g.first
}

// Last returns the last main line move.
func (g *Game) Last() Index {
	last := NoIndex
	for i := g.first; i != NoIndex; i = g.moves[i].next {
		last = i
	}
	return last
}

// Next returns the continuation of i.
func (g *Game) Next(i Index) Index {
	if !g.live(i) {
		return NoIndex
	}
	return g.moves[i].next
}

// Prev returns the move played before i.
func (g *Game) Prev(i Index) Index {
	if !g.live(i) {
		return NoIndex
	}
	return g.moves[i].prev
}

// StartVariation reports whether i is the first move of a variation.
func (g *Game) StartVariation(i Index) bool {
	if !g.live(i) {
		return false
	}
	h, _ := g.holder(i)
	return h != NoIndex
}

// EndVariation reports whether i is the last move of a variation.
func (g *Game) EndVariation(i Index) bool {
	return g.live(i) && g.moves[i].next == NoIndex && g.VariationLevel(i) > 0
}

// StartMainLine reports whether i is the first move of the game.
func (g *Game) StartMainLine(i Index) bool {
	return g.live(i) && i == g.first
}

// AfterMoveWithVariation reports whether i continues a line right after a
// variation block, which is where a move number has to be repeated.
func (g *Game) AfterMoveWithVariation(i Index) bool {
	if !g.live(i) {
		return false
	}
	p := g.moves[i].prev
	return p != NoIndex && g.moves[p].next == i && len(g.moves[p].variations) > 0
}

// VariationLevel returns how deeply i is nested; main line moves are at
// level 0.
func (g *Game) VariationLevel(i Index) int {
	if !g.live(i) {
		return 0
	}
	level := 0
	cur := i
	for {
		head := g.lineHead(cur)
		h, _ := g.holder(head)
		if h == NoIndex {
			return level
		}
		level++
		cur = h
	}
}

// lineHead follows prev links while they are continuation links.
func (g *Game) lineHead(i Index) Index {
	for {
		p := g.moves[i].prev
		if p == NoIndex || g.moves[p].next != i {
			return i
		}
		i = p
	}
}

// SANWithNAGs returns the move followed by its glyphs, e.g. "Nf3!?" or
// "e4 ±".
func (g *Game) SANWithNAGs(i Index) string {
	if !g.live(i) {
		return ""
	}
	return g.moves[i].SAN() + symbols(g.moves[i].nags)
}

// HasDiagramNAG reports whether the move asks for a diagram.
func (g *Game) HasDiagramNAG(i Index) bool {
	if !g.live(i) {
		return false
	}
	for _, n := range g.moves[i].nags {
		if n == NAGDiagram || n == NAGDiagramFromBlack {
			return true
		}
	}
	return false
}

// PossibleMoves maps origin squares to legal destinations in the position
// after i, or in the starting position for NoIndex.
func (g *Game) PossibleMoves(i Index) (map[string][]string, error) {
	if i != NoIndex && !g.live(i) {
		return nil, notFound(i)
	}
	return g.oracle.LegalDestinations(g.positionAfter(i))
}

// InCheck reports whether the side to move after i is in check.
func (g *Game) InCheck(i Index) (bool, error) {
	if i != NoIndex && !g.live(i) {
		return false, notFound(i)
	}
	return g.oracle.IsCheck(g.positionAfter(i))
}
