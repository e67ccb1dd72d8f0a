package movetree

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// sortableTagPair is its own type so tag pairs can be ordered.
type sortableTagPair struct {
	Key   string
	Value string
}

// Compares two tags to determine in which order they should be brought up
func cmpTags(a, b sortableTagPair) int {
	// Don't re-order duplicate keys
	if a.Key == b.Key {
		return 0
	}

	// PGN defined tags take priority
	for _, req := range []string{
		"Event",
		"Site",
		"Date",
		"Round",
		"White",
		"Black",
		"Result",
	} {
		if a.Key == req {
			return -1
		}
		if b.Key == req {
			return +1
		}
	}

	return strings.Compare(a.Key, b.Key)
}

// String implements the fmt.Stringer interface and returns the game's PGN.
// Tag pairs come first, then a blank line, the move text and the result.
// There is no trailing newline.
func (g *Game) String() string {
	var sb strings.Builder

	tags := g.headersForOutput()
	list := make([]sortableTagPair, 0, len(tags))
	for k, v := range tags {
		list = append(list, sortableTagPair{Key: k, Value: v})
	}
	slices.SortFunc(list, cmpTags)
	for _, tp := range list {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", tp.Key, escapeTagValue(tp.Value))
	}
	if len(list) > 0 {
		sb.WriteString("\n")
	}

	w := &moveWriter{game: g, sb: &sb}
	if g.first != NoIndex {
		w.line(g.first)
	} else if g.comment != "" {
		w.comment(g.comment)
	}
	w.token(g.EndGame().String())
	return sb.String()
}

// WriteTo implements the io.WriterTo interface and writes the game's PGN.
func (g *Game) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.String())
	return int64(n), err
}

// headersForOutput adds the SetUp and FEN tags a game from a non standard
// position needs.
func (g *Game) headersForOutput() TagPairs {
	tags := g.TagPairs()
	if _, ok := tags["Result"]; ok {
		tags["Result"] = g.EndGame().String()
	}
	if g.start != StartingFEN {
		tags["SetUp"] = "1"
		tags["FEN"] = g.start
	}
	return tags
}

func escapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// moveWriter emits move text tokens separated by single spaces.
type moveWriter struct {
	game      *Game
	sb        *strings.Builder
	open      bool // nothing written since "(" or start
	afterMove bool // the last token was a move or its glyphs
}

func (w *moveWriter) token(s string) {
	if w.sb.Len() > 0 && !w.open && !strings.HasSuffix(w.sb.String(), "\n") {
		w.sb.WriteByte(' ')
	}
	w.sb.WriteString(s)
	w.open = false
	w.afterMove = false
}

func (w *moveWriter) comment(s string) {
	w.token("{" + s + "}")
}

// line writes the line starting at head with all nested variations.
func (w *moveWriter) line(head Index) {
	g := w.game
	forceNumber := true
	for i := head; i != NoIndex; i = g.moves[i].next {
		m := &g.moves[i]
		w.move(m, forceNumber)
		forceNumber = false
		for _, v := range m.variations {
			if g.moves[v].deleted {
				continue
			}
			w.token("(")
			w.open = true
			w.line(v)
			w.sb.WriteString(")")
			w.afterMove = false
			forceNumber = true
		}
	}
}

func (w *moveWriter) move(m *Move, forceNumber bool) {
	if m.commentMove != "" {
		if w.afterMove {
			// keeps the comment from being read as the previous move's
			w.comment("")
		}
		w.comment(m.commentMove)
	}
	if m.turn == White {
		w.token(strconv.Itoa(m.moveNumber) + ".")
	} else if forceNumber || m.commentBefore != "" {
		w.token(strconv.Itoa(m.moveNumber) + "...")
	}
	if m.commentBefore != "" {
		w.comment(m.commentBefore)
	}
	w.token(m.SAN())
	for _, nag := range m.nags {
		w.token("$" + strconv.Itoa(nag))
	}
	w.afterMove = true
	if after := formatAnnotation(m.commentAfter, m.shapes, m.commands); after != "" {
		w.comment(after)
	}
}
