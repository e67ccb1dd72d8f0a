/*
Package movetree stores annotated chess games as an editable tree of moves,
reads and writes them in Portable Game Notation and answers navigation
queries about them.

Moves live in an index addressed store. Each move links to the move played
before it, its main continuation and the alternatives played instead of it,
so a whole game with nested variations is a flat slice of nodes. Deleted
moves stay in the store as tombstones and their indices are never reused.

Example usage:

	// Parse a game
	game, err := movetree.Parse("1. e4 e5 (1... c5 2. Nf3) 2. Nf3 *")
	if err != nil {
		log.Fatal(err)
	}

	// Add a sideline after 1. e4
	idx, err := game.AddMove(movetree.MoveSpec{SAN: "d5"}, 0)

	// Write it back
	fmt.Println(game)
*/
package movetree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// A Outcome is the result of a game.
type Outcome string

const (
	// NoOutcome indicates that a game is in progress or ended without a result.
	NoOutcome Outcome = "*"
	// WhiteWon indicates that white won the game.
	WhiteWon Outcome = "1-0"
	// BlackWon indicates that black won the game.
	BlackWon Outcome = "0-1"
	// Draw indicates that game was a draw.
	Draw Outcome = "1/2-1/2"
)

// String implements the fmt.Stringer interface.
func (o Outcome) String() string {
	return string(o)
}

func parseOutcome(s string) Outcome {
	switch Outcome(s) {
	case WhiteWon, BlackWon, Draw:
		return Outcome(s)
	}
	return NoOutcome
}

// TagPairs represents a collection of PGN tag pairs.
type TagPairs map[string]string

// DefaultMaxVariationDepth bounds variation nesting while parsing.
const DefaultMaxVariationDepth = 64

// A Game represents a single chess game with all its variations.
type Game struct {
	id       string
	tagPairs TagPairs
	start    string  // starting position fingerprint
	first    Index   // first main line move
	moves    []Move  // store, including tombstones
	comment  string  // game comment of a game without moves
	oracle   Oracle
	logger   *zap.Logger
	maxDepth int
}

// WithStartingPosition starts the game from a FEN position instead of the
// standard one.
func WithStartingPosition(fen string) func(*Game) {
	return func(g *Game) {
		g.start = fen
	}
}

// WithOracle replaces the chess rules used to validate moves.
func WithOracle(o Oracle) func(*Game) {
	return func(g *Game) {
		if o != nil {
			g.oracle = o
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) func(*Game) {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMaxVariationDepth limits how deeply variations may nest in parsed
// input.
func WithMaxVariationDepth(depth int) func(*Game) {
	return func(g *Game) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// NewGame returns an empty game in the standard starting position.
// Optional functions can be provided to configure the initial game state.
//
// Example:
//
//	// Standard game
//	game := NewGame()
//
//	// Game from FEN
//	game := NewGame(WithStartingPosition("8/8/8/8/8/8/8/K6k w - - 0 1"))
func NewGame(options ...func(*Game)) *Game {
	game := &Game{
		id:       uuid.NewString(),
		tagPairs: make(TagPairs),
		start:    StartingFEN,
		first:    NoIndex,
		oracle:   StandardOracle{},
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxVariationDepth,
	}
	for _, f := range options {
		if f != nil {
			f(game)
		}
	}
	game.logger = game.logger.With(zap.String("game", game.id))
	return game
}

// PGN takes a reader and returns a function that updates the game to
// reflect the PGN data. The returned function is designed to be used in
// the NewGame constructor. An error is returned if there is a problem
// parsing the PGN data; use Parse to keep the partially read tree.
func PGN(r io.Reader, options ...func(*Game)) (func(*Game), error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	game, err := Parse(string(raw), options...)
	if err != nil {
		return nil, err
	}
	return func(g *Game) {
		g.copy(game)
	}, nil
}

// ID returns a random identifier assigned when the game was created. It
// tags every log entry of the game.
func (g *Game) ID() string {
	return g.id
}

// StartingPosition returns the fingerprint of the initial position.
func (g *Game) StartingPosition() string {
	return g.start
}

// Len returns the number of slots in the store, tombstones included.
func (g *Game) Len() int {
	return len(g.moves)
}

// AddTagPair adds or updates a tag pair with the given key and
// value and returns true if the value is overwritten. A FEN tag also moves
// the starting position; it is dropped once the game has moves or when the
// oracle cannot read it. Use SetHeader to get the reason as an error.
func (g *Game) AddTagPair(k, v string) bool {
	if k == "FEN" && !g.canStartFrom(v) {
		return false
	}
	_, existing := g.tagPairs[k]
	g.tagPairs[k] = v
	if k == "FEN" {
		g.start = v
	}
	return existing
}

// canStartFrom reports whether fen may become the starting position.
func (g *Game) canStartFrom(fen string) bool {
	if g.first != NoIndex {
		g.logger.Warn("FEN tag dropped, game has moves", zap.String("fen", fen))
		return false
	}
	if _, err := g.oracle.IsCheck(fen); err != nil {
		g.logger.Warn("FEN tag dropped", zap.String("fen", fen), zap.Error(err))
		return false
	}
	return true
}

// GetTagPair returns the value for the given key or the empty string.
func (g *Game) GetTagPair(k string) string {
	return g.tagPairs[k]
}

// TagPairs returns a copy of the tag pairs.
func (g *Game) TagPairs() TagPairs {
	return maps.Clone(g.tagPairs)
}

// RemoveTagPair removes the tag pair for the given key and
// returns true if a tag pair was removed.
func (g *Game) RemoveTagPair(k string) bool {
	if _, existing := g.tagPairs[k]; existing {
		delete(g.tagPairs, k)
		return true
	}
	return false
}

// Comment returns the comment of a game that has no moves.
func (g *Game) Comment() string {
	return g.comment
}

// SetGameComment sets the comment written for a game without moves.
func (g *Game) SetGameComment(text string) {
	g.comment = strings.TrimSpace(text)
}

// Clone returns a deep copy of the game with a fresh identifier.
func (g *Game) Clone() *Game {
	c := NewGame(WithOracle(g.oracle), WithMaxVariationDepth(g.maxDepth))
	c.logger = g.logger.With(zap.String("clone", c.id))
	c.copy(g)
	return c
}

// copy replaces the contents of g with a deep copy of other, keeping g's
// identity.
func (g *Game) copy(other *Game) {
	g.tagPairs = maps.Clone(other.tagPairs)
	g.start = other.start
	g.first = other.first
	g.comment = other.comment
	g.oracle = other.oracle
	g.maxDepth = other.maxDepth
	g.moves = make([]Move, len(other.moves))
	for i, m := range other.moves {
		g.moves[i] = m.clone()
	}
}

// MarshalText implements the encoding.TextMarshaler interface and
// encodes the game's PGN.
func (g *Game) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface and
// assumes the data is in the PGN format.
func (g *Game) UnmarshalText(text []byte) error {
	toGame, err := PGN(bytes.NewReader(text))
	if err != nil {
		return err
	}
	if g.tagPairs == nil {
		*g = *NewGame()
	}
	toGame(g)
	return nil
}

// Summary returns a one line description built from the headers, e.g.
// "Carlsen - Anand | World Championship | Chennai | 1-0".
func (g *Game) Summary() string {
	var parts []string
	white, black := g.tagPairs["White"], g.tagPairs["Black"]
	if white != "" || black != "" {
		parts = append(parts, fmt.Sprintf("%s - %s", orUnknown(white), orUnknown(black)))
	}
	for _, key := range []string{"Event", "Site", "Round", "Date", "ECO"} {
		if v := g.tagPairs[key]; v != "" && v != "?" && !strings.Contains(v, "??") {
			parts = append(parts, v)
		}
	}
	parts = append(parts, g.EndGame().String())
	return strings.Join(parts, " | ")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// positionBefore returns the fingerprint of the position in which move i
// was played.
func (g *Game) positionBefore(i Index) string {
	if prev := g.moves[i].prev; prev != NoIndex {
		return g.moves[prev].position
	}
	return g.start
}

// positionAfter returns the fingerprint after move i, or the starting
// position for NoIndex.
func (g *Game) positionAfter(i Index) string {
	if i == NoIndex {
		return g.start
	}
	return g.moves[i].position
}

// live reports whether i addresses a move that is not deleted.
func (g *Game) live(i Index) bool {
	return i >= 0 && int(i) < len(g.moves) && !g.moves[i].deleted
}
