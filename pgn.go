package movetree

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// line is the parse state of the main line or of one open variation.
type line struct {
	open     Token  // "(" that opened the variation
	anchor   Index  // move whose variations receive the line head
	prev     Index  // move the line continues from
	last     Index  // last move read on this line
	position string // position after last

	// Comment placement: a comment directly after a move belongs to it,
	// one after a move number to the following move, anything else waits
	// for the next move.
	afterMove     bool
	afterNumber   bool
	pendingMove   annotation
	pendingBefore annotation
}

// completeMove matches move text that ends the way a move can end: on a
// square, a promotion piece or castling.
var completeMove = regexp.MustCompile(`(?:[a-h][1-8](?:=?[QRBNqrbn])?|O-O|0-0)$`)

// Parser holds the state needed during parsing.
type Parser struct {
	game     *Game
	input    string
	tokens   []Token
	lexErr   error
	position int
	stack    []*line
}

// NewParser creates a parser for input. Options configure the game the
// parser fills in.
func NewParser(input string, options ...func(*Game)) *Parser {
	tokens, err := Tokenize(input)
	return &Parser{
		game:   NewGame(options...),
		input:  input,
		tokens: tokens,
		lexErr: err,
	}
}

// Parse reads a single game. On malformed input it returns the moves read
// up to the error together with a *ParseError; the returned tree is always
// consistent.
//
// Example:
//
//	game, err := Parse(`[White "Carlsen"] 1. e4 {best by test} e5 *`)
//	if err != nil {
//	    log.Fatal("Error parsing game:", err)
//	}
//	fmt.Printf("White: %s\n", game.GetTagPair("White"))
func Parse(input string, options ...func(*Game)) (*Game, error) {
	p := NewParser(input, options...)
	return p.Parse()
}

func (p *Parser) currentToken() Token {
	if p.position >= len(p.tokens) {
		return Token{Type: EOF, Offset: -1}
	}
	return p.tokens[p.position]
}

func (p *Parser) advance() {
	p.position++
}

// exhausted reports whether all tokens the lexer produced were consumed.
// When the lexer failed, its error is the one to report.
func (p *Parser) exhausted() bool {
	return p.position >= len(p.tokens)
}

func (p *Parser) errorf(tok Token, msg string, cause error) *ParseError {
	return &ParseError{
		Message: msg,
		Token:   tok.Value,
		Offset:  tok.Offset,
		Line:    tok.Line,
		Column:  tok.Column,
		Err:     cause,
	}
}

// Parse processes all tokens and returns the game.
func (p *Parser) Parse() (*Game, error) {
	g := p.game
	if err := p.parseHeader(); err != nil {
		return g, err
	}

	if fen, ok := g.tagPairs["FEN"]; ok && fen != "" {
		g.start = fen
	}
	if _, err := g.oracle.IsCheck(g.start); err != nil {
		return g, &ParseError{Message: "invalid starting position", Token: g.start, Line: 1, Column: 1, Err: err}
	}

	err := p.parseMoveText()
	if err != nil {
		g.logger.Debug("parse stopped", zap.Error(err), zap.Int("moves", len(g.moves)))
	}
	return g, err
}

func (p *Parser) parseHeader() error {
	for p.currentToken().Type == TagStart {
		if err := p.parseTagPair(); err != nil {
			return err
		}
	}
	if p.exhausted() && p.lexErr != nil {
		return p.lexErr
	}
	return nil
}

func (p *Parser) parseTagPair() error {
	start := p.currentToken()
	p.advance()

	expect := func(tt TokenType) (Token, error) {
		tok := p.currentToken()
		if tok.Type != tt {
			if p.exhausted() && p.lexErr != nil {
				return tok, p.lexErr
			}
			if tok.Offset < 0 {
				tok = start
			}
			return tok, p.errorf(tok, "malformed header", nil)
		}
		p.advance()
		return tok, nil
	}

	key, err := expect(TagKey)
	if err != nil {
		return err
	}
	value, err := expect(TagValue)
	if err != nil {
		return err
	}
	if _, err := expect(TagEnd); err != nil {
		return err
	}
	p.game.tagPairs[key.Value] = value.Value
	return nil
}

func (p *Parser) top() *line {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) parseMoveText() error {
	g := p.game
	p.stack = []*line{{anchor: NoIndex, prev: NoIndex, last: NoIndex, position: g.start}}

	for {
		tok := p.currentToken()
		if p.exhausted() && p.lexErr != nil {
			p.closeLines()
			return p.lexErr
		}

		switch tok.Type {
		case EOF:
			if len(p.stack) > 1 {
				open := p.top().open
				p.closeLines()
				return p.errorf(open, "unterminated variation", nil)
			}
			p.closeLines()
			return nil

		case MoveNumber:
			ln := p.top()
			ln.afterMove = false
			ln.afterNumber = true
			p.advance()

		case SAN:
			if err := p.parseMove(tok); err != nil {
				return err
			}
			p.advance()

		case NAG:
			p.parseNAG(tok)
			p.advance()

		case Comment:
			p.parseComment(tok)
			p.advance()

		case VariationStart:
			if err := p.openVariation(tok); err != nil {
				return err
			}
			p.advance()

		case VariationEnd:
			if len(p.stack) == 1 {
				return p.errorf(tok, "unexpected variation end", nil)
			}
			p.closeVariation()
			p.advance()

		case Result:
			if len(p.stack) > 1 {
				open := p.top().open
				p.closeLines()
				return p.errorf(open, "unterminated variation", nil)
			}
			p.closeLines()
			if tok.Value != NoOutcome.String() {
				g.tagPairs["Result"] = tok.Value
			}
			p.advance()
			if next := p.currentToken(); next.Type != EOF {
				g.logger.Debug("ignoring text after result", zap.Int("offset", next.Offset))
			}
			return nil

		default:
			return p.errorf(tok, "unexpected "+strings.ToLower(tok.Type.String())+" in move text", nil)
		}
	}
}

func (p *Parser) parseMove(tok Token) error {
	g := p.game
	ln := p.top()
	text, nags := splitSuffix(tok.Value)

	res, err := g.oracle.LegalMove(ln.position, MoveSpec{SAN: text})
	if err != nil {
		if p.truncated(tok, text) {
			return p.errorf(tok, "unexpected end of input", io.ErrUnexpectedEOF)
		}
		if !errors.Is(err, ErrIllegalMove) {
			err = errors.Join(ErrIllegalMove, err)
		}
		return p.errorf(tok, "illegal move", err)
	}

	prev := ln.last
	if prev == NoIndex {
		prev = ln.prev
	}
	i := Index(len(g.moves))
	g.moves = append(g.moves, newMove(i, res, prev))
	switch {
	case ln.last != NoIndex:
		g.moves[ln.last].next = i
	case ln.anchor != NoIndex:
		g.moves[ln.anchor].variations = append(g.moves[ln.anchor].variations, i)
	default:
		g.first = i
	}

	m := &g.moves[i]
	m.commentMove = ln.pendingMove.text
	m.commentBefore = ln.pendingBefore.text
	var carried annotation
	carried.merge(ln.pendingMove)
	carried.merge(ln.pendingBefore)
	m.shapes = normalizeShapes(carried.shapes)
	m.commands = carried.commands
	m.nags = nags

	ln.pendingMove, ln.pendingBefore = annotation{}, annotation{}
	ln.last = i
	ln.position = res.Position
	ln.afterMove = true
	ln.afterNumber = false
	return nil
}

// truncated reports whether the move token is the unfinished tail of the
// input, as in "1. e4 e5 2. Nf".
func (p *Parser) truncated(tok Token, text string) bool {
	end := tok.Offset + len(tok.Value)
	if end > len(p.input) || strings.TrimSpace(p.input[end:]) != "" {
		return false
	}
	return !completeMove.MatchString(strings.TrimRight(text, "+#"))
}

func (p *Parser) parseNAG(tok Token) {
	ln := p.top()
	code, ok := parseNAG(tok.Value)
	if !ok {
		code, _ = NAGFromGlyph(tok.Value)
	}
	if ln.last == NoIndex {
		p.game.logger.Debug("annotation glyph without move", zap.String("nag", tok.Value), zap.Int("offset", tok.Offset))
		return
	}
	m := &p.game.moves[ln.last]
	m.nags = addNAG(m.nags, code)
}

func (p *Parser) parseComment(tok Token) {
	ln := p.top()
	a := parseAnnotation(tok.Value)
	switch {
	case ln.afterMove:
		p.attachAfter(ln.last, a)
		ln.afterMove = false
	case ln.afterNumber:
		ln.pendingBefore.merge(a)
	default:
		ln.pendingMove.merge(a)
	}
}

func (p *Parser) attachAfter(i Index, a annotation) {
	m := &p.game.moves[i]
	m.commentAfter = joinComments(m.commentAfter, a.text)
	m.shapes = normalizeShapes(append(m.shapes, a.shapes...))
	if len(a.commands) > 0 {
		if m.commands == nil {
			m.commands = make(map[string]string)
		}
		maps.Copy(m.commands, a.commands)
	}
}

func (p *Parser) openVariation(tok Token) error {
	g := p.game
	ln := p.top()
	if ln.last == NoIndex {
		return p.errorf(tok, "variation without a preceding move", nil)
	}
	if len(p.stack) > g.maxDepth {
		return p.errorf(tok, "variations nested too deeply", nil)
	}
	p.flush(ln)
	ln.afterMove, ln.afterNumber = false, false

	anchor := ln.last
	prev := g.moves[anchor].prev
	p.stack = append(p.stack, &line{
		open:     tok,
		anchor:   anchor,
		prev:     prev,
		last:     NoIndex,
		position: g.positionBefore(anchor),
	})
	return nil
}

func (p *Parser) closeVariation() {
	ln := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	if ln.last == NoIndex {
		p.game.logger.Debug("dropping empty variation", zap.Int("offset", ln.open.Offset))
	} else {
		p.flush(ln)
	}
	outer := p.top()
	outer.afterMove, outer.afterNumber = false, false
}

// flush attaches comments that did not reach a following move to the last
// move of the line, or to the game when there are no moves at all.
func (p *Parser) flush(ln *line) {
	var rest annotation
	rest.merge(ln.pendingMove)
	rest.merge(ln.pendingBefore)
	ln.pendingMove, ln.pendingBefore = annotation{}, annotation{}
	if rest.empty() {
		return
	}
	if ln.last != NoIndex {
		p.attachAfter(ln.last, rest)
		return
	}
	if len(p.stack) <= 1 && p.game.first == NoIndex {
		p.game.comment = joinComments(p.game.comment, rest.text)
	}
}

// closeLines finishes every open line, innermost first.
func (p *Parser) closeLines() {
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.flush(p.stack[i])
	}
}
