package movetree

import "strings"

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// A Color is the side that plays a move.
type Color uint8

const (
	// NoColor represents no color.
	NoColor Color = iota
	// White represents the color white.
	White
	// Black represents the color black.
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// String implements the fmt.Stringer interface.
func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return "-"
}

// PieceType is the type of a piece regardless of color.
type PieceType uint8

const (
	// NoPieceType is the zero value.
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// String returns the SAN letter of the piece type; pawns have none.
func (t PieceType) String() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// PieceTypeFromString parses an upper or lower case piece letter.
func PieceTypeFromString(s string) PieceType {
	switch s {
	case "K", "k":
		return King
	case "Q", "q":
		return Queen
	case "R", "r":
		return Rook
	case "B", "b":
		return Bishop
	case "N", "n":
		return Knight
	case "P", "p":
		return Pawn
	}
	return NoPieceType
}

// A Square is one of the 64 board squares, a1 = 0 through h8 = 63.
type Square int8

// NoSquare is the absent square.
const NoSquare Square = -1

// File returns the zero based file.
func (sq Square) File() int {
	return int(sq) % 8
}

// Rank returns the zero based rank.
func (sq Square) Rank() int {
	return int(sq) / 8
}

// String implements the fmt.Stringer interface.
func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare converts a square name such as "e4" into a Square.
func ParseSquare(s string) Square {
	if len(s) != 2 {
		return NoSquare
	}
	file, rank := int(s[0])-'a', int(s[1])-'1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// CastleSide identifies a castling move.
type CastleSide uint8

const (
	// NoCastle is any move that is not castling.
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// Notation is a structured SAN description of a move. It carries enough
// to render the move text without the position it was played in.
type Notation struct {
	Piece          PieceType
	Disambiguation string
	Capture        bool
	EnPassant      bool
	Castle         CastleSide
	Target         Square
	Promotion      PieceType
	Check          bool
	Mate           bool
}

// String renders the notation as SAN, e.g. "Nbxd7+" or "e8=Q#".
func (n Notation) String() string {
	return n.Format(PieceType.String)
}

// Format renders the notation using letter for the piece letters, which
// allows localized output.
func (n Notation) Format(letter func(PieceType) string) string {
	var sb strings.Builder
	switch n.Castle {
	case KingSide:
		sb.WriteString("O-O")
	case QueenSide:
		sb.WriteString("O-O-O")
	default:
		if n.Piece != Pawn {
			sb.WriteString(letter(n.Piece))
		}
		sb.WriteString(n.Disambiguation)
		if n.Capture {
			sb.WriteByte('x')
		}
		sb.WriteString(n.Target.String())
		if n.Promotion != NoPieceType {
			sb.WriteByte('=')
			sb.WriteString(letter(n.Promotion))
		}
	}
	switch {
	case n.Mate:
		sb.WriteByte('#')
	case n.Check:
		sb.WriteByte('+')
	}
	return sb.String()
}
