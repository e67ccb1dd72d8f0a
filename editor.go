package movetree

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// AddMove plays spec after the move at index after, or from the starting
// position when after is NoIndex, and returns the index of the move.
//
// An identical move already present as the continuation or one of its
// alternatives is reused. Otherwise the move becomes the continuation when
// there is none yet, or a new variation of the existing continuation.
func (g *Game) AddMove(spec MoveSpec, after Index) (Index, error) {
	if after != NoIndex && !g.live(after) {
		return NoIndex, notFound(after)
	}

	res, err := g.oracle.LegalMove(g.positionAfter(after), spec)
	if err != nil {
		if !errors.Is(err, ErrIllegalMove) {
			err = fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
		return NoIndex, err
	}

	cont := g.first
	if after != NoIndex {
		cont = g.moves[after].next
	}
	if cont != NoIndex {
		if g.sameMove(cont, res) {
			return cont, nil
		}
		for _, v := range g.moves[cont].variations {
			if g.sameMove(v, res) {
				return v, nil
			}
		}
	}

	i := Index(len(g.moves))
	g.moves = append(g.moves, newMove(i, res, after))
	switch {
	case cont != NoIndex:
		g.moves[cont].variations = append(g.moves[cont].variations, i)
	case after == NoIndex:
		g.first = i
	default:
		g.moves[after].next = i
	}
	g.logger.Debug("move added",
		zap.Int("index", int(i)),
		zap.String("san", g.moves[i].SAN()),
		zap.Bool("variation", cont != NoIndex))
	return i, nil
}

func (g *Game) sameMove(i Index, res Resolved) bool {
	m := &g.moves[i]
	return !m.deleted && m.from == res.From && m.to == res.To && m.promotion == res.Promotion
}

// DeleteMove marks the move at i, its continuation and every variation
// reachable from them as deleted and unlinks i from the tree.
func (g *Game) DeleteMove(i Index) error {
	if !g.live(i) {
		return notFound(i)
	}

	g.replaceLink(i, NoIndex)

	count := 0
	stack := []Index{i}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m := &g.moves[cur]
		if m.deleted {
			continue
		}
		m.deleted = true
		count++
		if m.next != NoIndex {
			stack = append(stack, m.next)
		}
		stack = append(stack, m.variations...)
	}
	g.logger.Debug("move deleted", zap.Int("index", int(i)), zap.Int("removed", count))
	return nil
}

// PromoteMove swaps the variation starting at i with the line it is an
// alternative to. Only one level is promoted per call: the former main
// move takes i's place among the variations.
func (g *Game) PromoteMove(i Index) error {
	if !g.live(i) {
		return notFound(i)
	}
	h, slot := g.holder(i)
	if h == NoIndex {
		return fmt.Errorf("%w: index %d", ErrNotAVariation, i)
	}

	holder, moved := &g.moves[h], &g.moves[i]
	vars := slices.Clone(holder.variations)
	vars[slot] = h
	vars = append(vars, moved.variations...)

	g.replaceLink(h, i)
	moved.variations = vars
	holder.variations = nil
	g.logger.Debug("variation promoted", zap.Int("index", int(i)), zap.Int("demoted", int(h)))
	return nil
}

// holder returns the move listing i among its variations and the slot i
// occupies there.
func (g *Game) holder(i Index) (Index, int) {
	for j := range g.moves {
		m := &g.moves[j]
		if m.deleted {
			continue
		}
		if k := slices.Index(m.variations, i); k >= 0 {
			return Index(j), k
		}
	}
	return NoIndex, -1
}

// replaceLink points whatever link reaches old at repl instead. A NoIndex
// repl removes old from a variation list.
func (g *Game) replaceLink(old, repl Index) {
	if g.first == old {
		g.first = repl
		return
	}
	if p := g.moves[old].prev; p != NoIndex && g.moves[p].next == old {
		g.moves[p].next = repl
		return
	}
	h, slot := g.holder(old)
	if h == NoIndex {
		return
	}
	if repl == NoIndex {
		g.moves[h].variations = slices.Delete(g.moves[h].variations, slot, slot+1)
		return
	}
	g.moves[h].variations[slot] = repl
}

// CommentKind selects one of the three comment slots of a move.
type CommentKind int

const (
	// CommentMove is written before the move number.
	CommentMove CommentKind = iota
	// CommentBefore is written between the move number and the move.
	CommentBefore
	// CommentAfter is written after the move and its glyphs.
	CommentAfter
)

// SetComment replaces one comment of the move at i. Braces are removed
// from text since they delimit comments.
func (g *Game) SetComment(i Index, kind CommentKind, text string) error {
	if !g.live(i) {
		return notFound(i)
	}
	text = strings.Join(strings.Fields(strings.NewReplacer("{", "", "}", "").Replace(text)), " ")
	m := &g.moves[i]
	switch kind {
	case CommentMove:
		m.commentMove = text
	case CommentBefore:
		m.commentBefore = text
	case CommentAfter:
		m.commentAfter = text
	default:
		return fmt.Errorf("movetree: unknown comment kind %d", kind)
	}
	return nil
}

// ChangeNAG adds or removes an annotation glyph.
func (g *Game) ChangeNAG(i Index, code int, on bool) error {
	if !g.live(i) {
		return notFound(i)
	}
	if code < 0 || code > 255 {
		return fmt.Errorf("movetree: annotation glyph %d out of range", code)
	}
	m := &g.moves[i]
	if on {
		m.nags = addNAG(m.nags, code)
	} else {
		m.nags = removeNAG(m.nags, code)
	}
	return nil
}

// SetShapes replaces the colored fields and arrows of the move at i.
func (g *Game) SetShapes(i Index, shapes []Shape) error {
	if !g.live(i) {
		return notFound(i)
	}
	for _, s := range shapes {
		if !s.Color.valid() || s.From < 0 || s.From > 63 || s.To > 63 {
			return fmt.Errorf("movetree: invalid shape %v", s)
		}
	}
	g.moves[i].shapes = normalizeShapes(shapes)
	return nil
}

var keyPattern = regexp.MustCompile(`^\w+$`)

// SetCommand sets an embedded comment command such as "clk". An empty
// value removes the command.
func (g *Game) SetCommand(i Index, key, value string) error {
	if !g.live(i) {
		return notFound(i)
	}
	if !keyPattern.MatchString(key) || key == "csl" || key == "cal" {
		return fmt.Errorf("movetree: invalid command %q", key)
	}
	m := &g.moves[i]
	if value == "" {
		delete(m.commands, key)
		return nil
	}
	if m.commands == nil {
		m.commands = make(map[string]string)
	}
	m.commands[key] = strings.NewReplacer("]", "", "}", "").Replace(value)
	return nil
}

// SetHeader sets a tag pair. The FEN header moves the starting position and
// is accepted only while the game has no moves; Result must be one of the
// four game results.
func (g *Game) SetHeader(key, value string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("movetree: invalid header key %q", key)
	}
	switch key {
	case "FEN":
		if g.first != NoIndex {
			return errors.New("movetree: cannot change the starting position of a game with moves")
		}
		if _, err := g.oracle.IsCheck(value); err != nil {
			return fmt.Errorf("movetree: invalid starting position: %w", err)
		}
	case "Result":
		if value != NoOutcome.String() && parseOutcome(value) == NoOutcome {
			return fmt.Errorf("movetree: invalid result %q", value)
		}
	}
	g.AddTagPair(key, value)
	return nil
}

// RemoveHeader removes a tag pair. Removing FEN restores the standard
// starting position and, like setting it, needs a game without moves.
func (g *Game) RemoveHeader(key string) error {
	if key == "FEN" {
		if g.first != NoIndex {
			return errors.New("movetree: cannot change the starting position of a game with moves")
		}
		g.start = StartingFEN
	}
	g.RemoveTagPair(key)
	return nil
}
