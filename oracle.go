package movetree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

// MoveSpec is a candidate move. Either SAN is set (SAN, long algebraic or
// UCI text) or From and To name the squares, as produced by a drag on a
// board.
type MoveSpec struct {
	SAN       string
	From      string
	To        string
	Promotion PieceType
}

// String implements the fmt.Stringer interface.
func (s MoveSpec) String() string {
	if s.SAN != "" {
		return s.SAN
	}
	return s.From + s.To + s.Promotion.String()
}

// Resolved is the oracle's answer for a legal move.
type Resolved struct {
	From       Square
	To         Square
	Promotion  PieceType
	Notation   Notation
	Turn       Color // side that played the move
	MoveNumber int   // fullmove number of the move
	Position   string
}

// Oracle validates moves and derives positions. Positions are opaque
// fingerprint strings; the standard oracle uses FEN.
type Oracle interface {
	LegalMove(position string, spec MoveSpec) (Resolved, error)
	LegalDestinations(position string) (map[string][]string, error)
	IsCheck(position string) (bool, error)
}

// StandardOracle implements Oracle on top of github.com/corentings/chess.
type StandardOracle struct{}

// ValidateFEN reports whether fen describes a position the standard oracle
// can play from.
func ValidateFEN(fen string) error {
	_, err := decodePosition(fen)
	return err
}

func decodePosition(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// LegalMove resolves spec in the given FEN position. Square based specs for
// a pawn reaching the last rank promote to a queen unless a piece is given.
func (StandardOracle) LegalMove(position string, spec MoveSpec) (Resolved, error) {
	pos, err := decodePosition(position)
	if err != nil {
		return Resolved{}, err
	}

	var found *chess.Move
	if spec.SAN != "" {
		found = matchSAN(pos, spec.SAN)
		if found == nil {
			found = matchCoordinates(pos, spec.SAN)
		}
	} else {
		found = matchSquares(pos, spec.From, spec.To, spec.Promotion)
		if found == nil && spec.Promotion == NoPieceType {
			found = matchSquares(pos, spec.From, spec.To, Queen)
		}
	}
	if found == nil {
		return Resolved{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, spec, position)
	}

	next := pos.Update(found)
	turn := Black
	if pos.Turn() == chess.White {
		turn = White
	}
	return Resolved{
		From:       ParseSquare(found.S1().String()),
		To:         ParseSquare(found.S2().String()),
		Promotion:  pieceType(found.Promo()),
		Notation:   notate(pos, found, next),
		Turn:       turn,
		MoveNumber: fullMoveNumber(position),
		Position:   next.String(),
	}, nil
}

// LegalDestinations maps origin squares to reachable squares.
func (StandardOracle) LegalDestinations(position string) (map[string][]string, error) {
	pos, err := decodePosition(position)
	if err != nil {
		return nil, err
	}
	dests := make(map[string][]string)
	for _, m := range pos.ValidMoves() {
		from, to := m.S1().String(), m.S2().String()
		list := dests[from]
		// promotions repeat the same destination
		if n := len(list); n > 0 && list[n-1] == to {
			continue
		}
		dests[from] = append(list, to)
	}
	return dests, nil
}

// IsCheck reports whether the side to move is in check.
func (StandardOracle) IsCheck(position string) (bool, error) {
	pos, err := decodePosition(position)
	if err != nil {
		return false, err
	}
	return kingAttacked(pos), nil
}

// notate describes m, played in pos and leading to next.
func notate(pos *chess.Position, m *chess.Move, next *chess.Position) Notation {
	n := Notation{
		Piece:     pieceType(pos.Board().Piece(m.S1()).Type()),
		Capture:   m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant),
		EnPassant: m.HasTag(chess.EnPassant),
		Target:    ParseSquare(m.S2().String()),
		Promotion: pieceType(m.Promo()),
		Check:     m.HasTag(chess.Check),
		Mate:      next.Status() == chess.Checkmate,
	}
	switch {
	case m.HasTag(chess.KingSideCastle):
		n.Castle = KingSide
	case m.HasTag(chess.QueenSideCastle):
		n.Castle = QueenSide
	case n.Piece == Pawn:
		if n.Capture {
			n.Disambiguation = m.S1().String()[:1]
		}
	default:
		n.Disambiguation = disambiguation(chess.AlgebraicNotation{}.Encode(pos, m))
	}
	n.Check = n.Check || n.Mate
	return n
}

// disambiguation extracts the origin hint from a piece move in SAN, the
// "b" of "Nbxd7+".
func disambiguation(san string) string {
	san = strings.TrimRight(san, "+#")
	if len(san) < 3 {
		return ""
	}
	return strings.TrimSuffix(san[1:len(san)-2], "x")
}

// normalizeSAN drops annotation suffixes and spells castling with letters.
func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "e.p.")
	s = strings.TrimRight(s, "+#!?")
	return strings.ReplaceAll(s, "0", "O")
}

func matchSAN(pos *chess.Position, san string) *chess.Move {
	want := normalizeSAN(san)
	for _, m := range pos.ValidMoves() {
		if normalizeSAN(chess.AlgebraicNotation{}.Encode(pos, &m)) == want {
			return &m
		}
	}
	return nil
}

// matchCoordinates accepts UCI and long algebraic input such as "e2e4",
// "e7e8q", "Ng1-f3" or "e5xd6".
func matchCoordinates(pos *chess.Position, s string) *chess.Move {
	s = normalizeSAN(s)
	if s != "" && strings.IndexByte("KQRBN", s[0]) >= 0 {
		s = s[1:]
	}
	s = strings.NewReplacer("-", "", "x", "", "=", "").Replace(s)
	if len(s) != 4 && len(s) != 5 {
		return nil
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromString(s[4:])
		if promo == NoPieceType {
			return nil
		}
	}
	return matchSquares(pos, s[:2], s[2:4], promo)
}

func matchSquares(pos *chess.Position, from, to string, promo PieceType) *chess.Move {
	for _, m := range pos.ValidMoves() {
		if m.S1().String() == from && m.S2().String() == to && pieceType(m.Promo()) == promo {
			return &m
		}
	}
	return nil
}

func pieceType(pt chess.PieceType) PieceType {
	switch pt {
	case chess.King:
		return King
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	case chess.Pawn:
		return Pawn
	}
	return NoPieceType
}

// fullMoveNumber reads the sixth FEN field.
func fullMoveNumber(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

var (
	knightSteps = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

// kingAttacked reports whether the king of the side to move stands on a
// square attacked by the other side. The library only records check on the
// move that gives it, so positions read from FEN are inspected here.
func kingAttacked(pos *chess.Position) bool {
	type piece struct {
		kind  PieceType
		white bool
	}
	var board [64]*piece
	king := NoSquare
	white := pos.Turn() == chess.White
	for sq, p := range pos.Board().SquareMap() {
		s := ParseSquare(sq.String())
		if s == NoSquare || pieceType(p.Type()) == NoPieceType {
			continue
		}
		board[s] = &piece{kind: pieceType(p.Type()), white: p.Color() == chess.White}
		if board[s].kind == King && board[s].white == white {
			king = s
		}
	}
	if king == NoSquare {
		return false
	}

	enemy := func(f, r int, kinds ...PieceType) bool {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return false
		}
		p := board[r*8+f]
		if p == nil || p.white == white {
			return false
		}
		for _, k := range kinds {
			if p.kind == k {
				return true
			}
		}
		return false
	}

	f, r := king.File(), king.Rank()
	forward := 1
	if !white {
		forward = -1
	}
	if enemy(f-1, r+forward, Pawn) || enemy(f+1, r+forward, Pawn) {
		return true
	}
	for _, d := range knightSteps {
		if enemy(f+d[0], r+d[1], Knight) {
			return true
		}
	}
	for i, d := range kingSteps {
		if enemy(f+d[0], r+d[1], King) {
			return true
		}
		slider := Rook
		if i%2 == 1 {
			slider = Bishop
		}
		for tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8; tf, tr = tf+d[0], tr+d[1] {
			if board[tr*8+tf] == nil {
				continue
			}
			if enemy(tf, tr, slider, Queen) {
				return true
			}
			break
		}
	}
	return false
}
