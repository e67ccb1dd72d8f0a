package movetree

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewGame(t *testing.T) {
	g := NewGame()
	if g.ID() == "" {
		t.Fatal("expected a game id")
	}
	if g.First() != NoIndex {
		t.Fatalf("expected an empty game but first move is %d", g.First())
	}
	if g.EndGame() != NoOutcome {
		t.Fatalf("expected outcome %s but got %s", NoOutcome, g.EndGame())
	}
	if other := NewGame(); other.ID() == g.ID() {
		t.Fatalf("expected distinct ids but both are %s", g.ID())
	}
}

func TestNewGameFromFEN(t *testing.T) {
	fen := "8/8/8/4k3/8/8/4P3/4K3 b - - 0 40"
	g := NewGame(WithStartingPosition(fen))
	if g.StartingPosition() != fen {
		t.Fatalf("expected starting position %s but got %s", fen, g.StartingPosition())
	}
	i, err := g.AddMove(MoveSpec{SAN: "Kd5"}, NoIndex)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := g.GetMove(i)
	if m.MoveNumber() != 40 {
		t.Fatalf("expected move number 40 but got %d", m.MoveNumber())
	}
}

func TestTagPairs(t *testing.T) {
	g := NewGame()
	if g.AddTagPair("Event", "Test Event") {
		t.Fatal("expected a new tag pair")
	}
	if !g.AddTagPair("Event", "Other Event") {
		t.Fatal("expected the tag pair to be overwritten")
	}
	if g.GetTagPair("Event") != "Other Event" {
		t.Fatalf("expected tag pair 'Other Event' but got %s", g.GetTagPair("Event"))
	}

	tags := g.TagPairs()
	tags["Event"] = "changed"
	if g.GetTagPair("Event") != "Other Event" {
		t.Fatal("modifying the returned tag pairs incorrectly mutates the game")
	}

	if !g.RemoveTagPair("Event") {
		t.Fatal("expected the tag pair to be removed")
	}
	if g.RemoveTagPair("Event") {
		t.Fatal("expected nothing to remove")
	}
}

func TestFENTagSetsStartingPosition(t *testing.T) {
	fen := "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	g := NewGame()
	g.AddTagPair("FEN", fen)
	if g.StartingPosition() != fen {
		t.Fatalf("expected starting position %s but got %s", fen, g.StartingPosition())
	}
}

func TestFENTagKeepsPlayedMoves(t *testing.T) {
	g, err := Parse("1. e4 e5 *")
	if err != nil {
		t.Fatal(err)
	}
	if g.AddTagPair("FEN", "4k3/8/8/8/8/8/8/4K3 w - - 0 1") {
		t.Fatal("expected the FEN tag to be dropped")
	}
	if g.StartingPosition() != StartingFEN {
		t.Fatalf("expected starting position %s but got %s", StartingFEN, g.StartingPosition())
	}
	if _, ok := g.TagPairs()["FEN"]; ok {
		t.Fatal("expected no FEN tag")
	}

	again, err := Parse(g.String())
	if err != nil {
		t.Fatalf("expected written game to parse but got %v", err)
	}
	if again.String() != g.String() {
		t.Fatalf("expected %s but got %s", g.String(), again.String())
	}

	empty := NewGame()
	empty.AddTagPair("FEN", "not a position")
	if empty.StartingPosition() != StartingFEN {
		t.Fatalf("expected an unreadable FEN to be ignored but got %s", empty.StartingPosition())
	}
}

func TestSummary(t *testing.T) {
	g, err := Parse(`[Event "Casual"]
[Site "?"]
[Date "2024.??.??"]
[White "Carlsen"]
[Result "1-0"]

1. e4 1-0`)
	if err != nil {
		t.Fatal(err)
	}
	want := "Carlsen - ? | Casual | 1-0"
	if g.Summary() != want {
		t.Fatalf("expected summary %q but got %q", want, g.Summary())
	}
	if got := NewGame().Summary(); got != "*" {
		t.Fatalf("expected summary %q but got %q", "*", got)
	}
}

func TestCloneGame(t *testing.T) {
	original, err := Parse(`[Event "Test Event"] 1. e4 e5 2. Nf3 (2. Bc4) *`)
	if err != nil {
		t.Fatal(err)
	}

	clone := original.Clone()
	if clone.String() != original.String() {
		t.Fatalf("expected %s but got %s", original.String(), clone.String())
	}
	if clone.ID() == original.ID() {
		t.Error("expected the clone to get its own id")
	}

	// make sure we can modify the clone without impact on the original
	if _, err := clone.AddMove(MoveSpec{SAN: "Nf6"}, 2); err != nil {
		t.Fatal(err)
	}
	if err := clone.DeleteMove(3); err != nil {
		t.Fatal(err)
	}
	if err := clone.SetComment(0, CommentAfter, "clone only"); err != nil {
		t.Fatal(err)
	}
	clone.AddTagPair("Event", "Test Event Modified")

	if original.String() != "[Event \"Test Event\"]\n\n1. e4 e5 2. Nf3 (2. Bc4) *" {
		t.Errorf("modifying the clone incorrectly mutates the original: %s", original.String())
	}
	if original.IsDeleted(3) || !clone.IsDeleted(3) {
		t.Errorf("deleting from the clone incorrectly affects the original moves")
	}
	if clone.Len() != original.Len()+1 {
		t.Errorf("expected the clone to hold %d moves but got %d", original.Len()+1, clone.Len())
	}
	if _, err := original.FindMove("Nf6"); err == nil {
		t.Errorf("adding to the clone incorrectly mutates the original moves")
	}
}

func TestGameComment(t *testing.T) {
	g := NewGame()
	g.SetGameComment("  nothing played  ")
	if g.String() != "{nothing played} *" {
		t.Fatalf("expected a lone comment but got %s", g.String())
	}
}

func TestPGNFromReader(t *testing.T) {
	opt, err := PGN(strings.NewReader("[White \"A\"] 1. d4 Nf6 0-1"))
	if err != nil {
		t.Fatal(err)
	}
	g := NewGame(opt)
	if g.GetTagPair("White") != "A" {
		t.Fatalf("expected tag pair 'A' but got %s", g.GetTagPair("White"))
	}
	if g.EndGame() != BlackWon {
		t.Fatalf("expected outcome %s but got %s", BlackWon, g.EndGame())
	}
	if len(g.MainLine()) != 2 {
		t.Fatalf("expected 2 moves but got %d", len(g.MainLine()))
	}

	if _, err := PGN(strings.NewReader("1. e4 (")); !errors.Is(err, ErrParse) {
		t.Fatalf("expected a parse error but got %v", err)
	}
}

func TestGameLogsEdits(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g := NewGame(WithLogger(zap.New(core)))

	if _, err := g.AddMove(MoveSpec{SAN: "e4"}, NoIndex); err != nil {
		t.Fatal(err)
	}
	if err := g.DeleteMove(0); err != nil {
		t.Fatal(err)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries but got %d", len(entries))
	}
	if entries[0].Message != "move added" || entries[1].Message != "move deleted" {
		t.Fatalf("unexpected log messages %q and %q", entries[0].Message, entries[1].Message)
	}
	if entries[0].ContextMap()["game"] != g.ID() {
		t.Fatalf("expected entries tagged with game %s", g.ID())
	}
}

// fixedOracle accepts any move and reports the requested text back.
type fixedOracle struct{}

func (fixedOracle) LegalMove(position string, spec MoveSpec) (Resolved, error) {
	if spec.SAN == "??" {
		return Resolved{}, errors.New("no such move")
	}
	return Resolved{Position: position + "+" + spec.SAN, MoveNumber: 1}, nil
}

func (fixedOracle) LegalDestinations(string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func (fixedOracle) IsCheck(string) (bool, error) {
	return false, nil
}

func TestCustomOracle(t *testing.T) {
	g := NewGame(WithOracle(fixedOracle{}))
	i, err := g.AddMove(MoveSpec{SAN: "anything"}, NoIndex)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := g.GetMove(i)
	if !strings.HasSuffix(m.Position(), "+anything") {
		t.Fatalf("expected the oracle's position but got %s", m.Position())
	}

	if _, err := g.AddMove(MoveSpec{SAN: "??"}, i); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected an illegal move error but got %v", err)
	}
}
