package movetree

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Index identifies a move in a game's store. Indices are stable for the
// lifetime of the game; deleted moves keep theirs as tombstones.
type Index int

// NoIndex marks an absent link.
const NoIndex Index = -1

// Valid reports whether i refers to a slot at all.
func (i Index) Valid() bool {
	return i >= 0
}

// A Move is one node of the move tree.
//
// Links follow the rules of the store: Prev is the move that was played
// before this one, Next is the main continuation, and Variations are
// alternatives to this move, played from the same position and sharing
// its Prev.
type Move struct {
	index      Index
	turn       Color
	moveNumber int
	from       Square
	to         Square
	promotion  PieceType
	notation   Notation
	position   string

	prev       Index
	next       Index
	variations []Index

	nags          []int
	commentMove   string // before the move number
	commentBefore string // between the number and the move
	commentAfter  string
	shapes        []Shape
	commands      map[string]string

	deleted bool
}

func newMove(i Index, r Resolved, prev Index) Move {
	return Move{
		index:      i,
		turn:       r.Turn,
		moveNumber: r.MoveNumber,
		from:       r.From,
		to:         r.To,
		promotion:  r.Promotion,
		notation:   r.Notation,
		position:   r.Position,
		prev:       prev,
		next:       NoIndex,
	}
}

// clone returns a copy that shares no slices or maps with m.
func (m Move) clone() Move {
	m.variations = slices.Clone(m.variations)
	m.nags = slices.Clone(m.nags)
	m.shapes = slices.Clone(m.shapes)
	if m.commands != nil {
		m.commands = maps.Clone(m.commands)
	}
	return m
}

// Index returns the move's stable index.
func (m Move) Index() Index { return m.index }

// Turn returns the side that played the move.
func (m Move) Turn() Color { return m.turn }

// MoveNumber returns the fullmove number the move belongs to.
func (m Move) MoveNumber() int { return m.moveNumber }

// From returns the origin square.
func (m Move) From() Square { return m.from }

// To returns the destination square.
func (m Move) To() Square { return m.to }

// Promotion returns the promotion piece or NoPieceType.
func (m Move) Promotion() PieceType { return m.promotion }

// Notation returns the structured SAN of the move.
func (m Move) Notation() Notation { return m.notation }

// SAN returns the move in Standard Algebraic Notation.
func (m Move) SAN() string { return m.notation.String() }

// Position returns the position fingerprint after the move.
func (m Move) Position() string { return m.position }

// Prev returns the move this one follows, or NoIndex at the start of the
// game.
func (m Move) Prev() Index { return m.prev }

// Next returns the main continuation, or NoIndex at the end of a line.
func (m Move) Next() Index { return m.next }

// Variations returns the alternatives to this move in order.
func (m Move) Variations() []Index { return slices.Clone(m.variations) }

// NAGs returns the numeric annotation glyphs in ascending order.
func (m Move) NAGs() []int { return slices.Clone(m.nags) }

// CommentMove returns the comment written before the move number.
func (m Move) CommentMove() string { return m.commentMove }

// CommentBefore returns the comment between move number and move.
func (m Move) CommentBefore() string { return m.commentBefore }

// CommentAfter returns the comment written after the move.
func (m Move) CommentAfter() string { return m.commentAfter }

// Shapes returns the colored fields and arrows attached to the move.
func (m Move) Shapes() []Shape { return slices.Clone(m.shapes) }

// Commands returns the embedded comment commands other than shapes,
// e.g. "clk" or "eval".
func (m Move) Commands() map[string]string {
	if m.commands == nil {
		return nil
	}
	return maps.Clone(m.commands)
}

// Clock returns the remaining clock time recorded with [%clk], if any.
func (m Move) Clock() string { return m.commands["clk"] }

// Deleted reports whether the move is a tombstone.
func (m Move) Deleted() bool { return m.deleted }

// UCI returns the move in coordinate notation.
func (m Move) UCI() string {
	s := m.from.String() + m.to.String()
	if m.promotion != NoPieceType {
		s += strings.ToLower(m.promotion.String())
	}
	return s
}

// String implements the fmt.Stringer interface.
func (m Move) String() string {
	return m.SAN()
}
