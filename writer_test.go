package movetree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGolden(t *testing.T, name string, g *Game) {
	t.Helper()
	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, name, []byte(g.String()+"\n"))
}

func TestWriterGolden(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"scenario", "1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6 *"},
		{"headers", `[White "Kasparov, Garry"]
[Annotator "Someone"]
[Event "Hoogovens"]
[Black "Topalov, Veselin"]
[Site "Wijk aan Zee"]
[Date "1999.01.20"]
[Round "4"]
[Result "1-0"]

1. e4 d6 2. d4 Nf6 3. Nc3 g6 1-0`},
		{"annotated", "1. e4! {Best by test [%csl Ge4][%cal Ge2e4]} 1... e5 $2 $14 2. Nf3 {[%clk 0:01:02]} Nc6 (2... d6 $6 {Philidor}) 3. Bb5 $220 *"},
		{"fen_start", "[FEN \"8/8/8/4k3/8/8/4P3/4K3 b - - 0 40\"]\n\n40... Kd5 41. e4+ *"},
		{"nested", "1. e4 (1. d4 d5 (1... Nf6 2. c4) 2. c4) 1... e5 *"},
		{"comments", "{Start} 1. {num} e4 $1 {after e4} {pre e5} e5 2. Nf3 *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.input)
			require.NoError(t, err)
			assertGolden(t, tt.name, g)
		})
	}
}

func TestWriterPromotedGolden(t *testing.T) {
	g, err := Parse("1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6 *")
	require.NoError(t, err)
	require.NoError(t, g.PromoteMove(3))
	assertGolden(t, "promoted", g)
}

var roundTripGames = []string{
	"1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6 *",
	"1. e4 (1. d4 d5 (1... Nf6 2. c4) 2. c4) (1. c4) 1... e5 2. Nf3 $1 $18 *",
	"{Start} 1. {num} e4 $1 {after e4} {pre e5} e5 2. Nf3 {x} (2. Nc3 {y}) {z} 2... Nc6 1-0",
	"[Event \"Test\"]\n[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1",
	"1. e4 {[%csl Rd4,Gd5][%cal Bb1c3]} c5 {[%clk 0:10:00] Sicilian} *",
	"[FEN \"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1\"]\n\n1. b8=Q+ (1. b8=N) Kd7 *",
	"1. d4 d5 2. c4 e6 3. Nc3 Nf6 4. Bg5 Be7 5. e3 O-O 6. Nf3 Nbd7 7. Rc1 c6 8. Bd3 dxc4 9. Bxc4 Nd5 *",
	"{Just a comment} *",
}

func TestRoundTrip(t *testing.T) {
	for _, input := range roundTripGames {
		first, err := Parse(input)
		require.NoError(t, err, input)
		require.NoError(t, first.Validate())

		second, err := Parse(first.String())
		require.NoError(t, err, first.String())

		assert.Equal(t, first.GetMoves(), second.GetMoves(), input)
		assert.Equal(t, first.EndGame(), second.EndGame(), input)
		assert.Equal(t, first.Comment(), second.Comment(), input)
		assert.Equal(t, first.String(), second.String(), input)
	}
}

// outline renders the tree independently of store indices.
func outline(g *Game) []string {
	var lines []string
	var visit func(head Index, depth int)
	visit = func(head Index, depth int) {
		for i := head; i != NoIndex; i = g.moves[i].next {
			m := g.moves[i]
			lines = append(lines, fmt.Sprintf("%s%d%s %s %v [%s|%s|%s] %v %v",
				strings.Repeat("  ", depth), m.moveNumber, m.turn, m.SAN(), m.nags,
				m.commentMove, m.commentBefore, m.commentAfter, m.shapes, m.commands))
			for _, v := range m.variations {
				visit(v, depth+1)
			}
		}
	}
	visit(g.first, 0)
	return lines
}

func TestRoundTripAfterEdits(t *testing.T) {
	g, err := Parse("1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6 3. Bb5 *")
	require.NoError(t, err)

	c5, err := g.AddMove(MoveSpec{SAN: "c5"}, 0)
	require.NoError(t, err)
	require.NoError(t, g.SetComment(c5, CommentMove, "Sicilian instead"))
	require.NoError(t, g.SetComment(c5, CommentBefore, "or"))
	require.NoError(t, g.ChangeNAG(c5, NAGInterestingMove, true))
	require.NoError(t, g.SetShapes(2, []Shape{Arrow(Green, 6, 21)}))
	require.NoError(t, g.PromoteMove(3))
	require.NoError(t, g.SetComment(6, CommentMove, "pin"))

	again, err := Parse(g.String())
	require.NoError(t, err, g.String())
	assert.Equal(t, outline(g), outline(again))
	require.NoError(t, again.Validate())
}

func TestWriterSeparatesMoveComments(t *testing.T) {
	g, err := Parse("1. e4 e5 *")
	require.NoError(t, err)
	require.NoError(t, g.SetComment(1, CommentMove, "reply"))
	assert.Equal(t, "1. e4 {} {reply} e5 *", g.String())

	again, err := Parse(g.String())
	require.NoError(t, err)
	assert.Equal(t, "reply", again.moves[1].commentMove)
	assert.Equal(t, "", again.moves[0].commentAfter)
}

func TestWriterEmptyGame(t *testing.T) {
	g := NewGame()
	assert.Equal(t, "*", g.String())

	g.AddTagPair("Event", "Casual")
	assert.Equal(t, "[Event \"Casual\"]\n\n*", g.String())
}

func TestWriterEscapesTagValues(t *testing.T) {
	g := NewGame()
	g.AddTagPair("Annotator", `The "Doc" \o/`)
	assert.Equal(t, "[Annotator \"The \\\"Doc\\\" \\\\o/\"]\n\n*", g.String())

	again, err := Parse(g.String())
	require.NoError(t, err)
	assert.Equal(t, `The "Doc" \o/`, again.GetTagPair("Annotator"))
}

func TestMarshalText(t *testing.T) {
	g, err := Parse("1. e4 e5 *")
	require.NoError(t, err)
	text, err := g.MarshalText()
	require.NoError(t, err)

	var back Game
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, "1. e4 e5 *", back.String())
	assert.NotEmpty(t, back.ID())
}

func TestWriteTo(t *testing.T) {
	g, err := Parse("1. e4 e5 *")
	require.NoError(t, err)

	var sb strings.Builder
	n, err := g.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, int64(len("1. e4 e5 *")), n)
	assert.Equal(t, "1. e4 e5 *", sb.String())
}
