package movetree

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType classifies lexical tokens of PGN text.
type TokenType int

const (
	EOF TokenType = iota
	TagStart
	TagKey
	TagValue
	TagEnd
	MoveNumber
	SAN
	NAG
	Comment
	VariationStart
	VariationEnd
	Result
)

var tokenNames = [...]string{
	EOF:            "EOF",
	TagStart:       "TagStart",
	TagKey:         "TagKey",
	TagValue:       "TagValue",
	TagEnd:         "TagEnd",
	MoveNumber:     "MoveNumber",
	SAN:            "SAN",
	NAG:            "NAG",
	Comment:        "Comment",
	VariationStart: "VariationStart",
	VariationEnd:   "VariationEnd",
	Result:         "Result",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "Unknown"
}

// Token is a lexical unit with its location in the input. Offset is a byte
// offset, Line and Column are one based.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
	Line   int
	Column int
}

// Lexer splits PGN text into tokens.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	inTag  bool
	tokens []Token
}

// NewLexer returns a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize returns every token of the input followed by EOF. When the
// input is malformed the tokens read so far are returned together with a
// *ParseError.
func Tokenize(input string) ([]Token, error) {
	lx := NewLexer(input)
	for {
		tok, err := lx.Next()
		if err != nil {
			return lx.tokens, err
		}
		lx.tokens = append(lx.tokens, tok)
		if tok.Type == EOF {
			return lx.tokens, nil
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		r := l.peek()
		switch {
		case r == '%' && l.col == 1:
			// escape line
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case unicode.IsSpace(r) || r == '\uFEFF':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) errorf(tok Token, msg string) *ParseError {
	return &ParseError{Message: msg, Token: tok.Value, Offset: tok.Offset, Line: tok.Line, Column: tok.Column}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	tok := Token{Offset: l.pos, Line: l.line, Column: l.col}
	if l.pos >= len(l.input) {
		tok.Type = EOF
		if l.inTag {
			return tok, l.errorf(tok, "unexpected end of input in header")
		}
		return tok, nil
	}
	if l.inTag {
		return l.tagToken(tok)
	}

	r := l.peek()
	switch {
	case r == '[':
		l.advance()
		l.inTag = true
		tok.Type, tok.Value = TagStart, "["
	case r == '(':
		l.advance()
		tok.Type, tok.Value = VariationStart, "("
	case r == ')':
		l.advance()
		tok.Type, tok.Value = VariationEnd, ")"
	case r == '{':
		l.advance()
		start := l.pos
		for l.pos < len(l.input) && l.peek() != '}' {
			l.advance()
		}
		if l.pos >= len(l.input) {
			tok.Value = "{"
			return tok, l.errorf(tok, "unterminated comment")
		}
		tok.Type, tok.Value = Comment, l.input[start:l.pos]
		l.advance()
	case r == ';':
		l.advance()
		start := l.pos
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		tok.Type, tok.Value = Comment, strings.TrimRight(l.input[start:l.pos], "\r")
	case r == '*':
		l.advance()
		tok.Type, tok.Value = Result, "*"
	case r == '$':
		l.advance()
		word := "$" + l.readWhile(isDigit)
		if _, ok := parseNAG(word); !ok {
			tok.Value = word
			return tok, l.errorf(tok, "invalid annotation glyph")
		}
		tok.Type, tok.Value = NAG, word
	case isDigit(r):
		return l.numberToken(tok)
	case unicode.IsLetter(r):
		tok.Type, tok.Value = SAN, l.readWhile(isMoveRune)
	default:
		tok.Value = l.readWhile(isGlyphRune)
		if tok.Value == "" {
			tok.Value = string(l.advance())
			return tok, l.errorf(tok, "unexpected character")
		}
		if _, ok := NAGFromGlyph(tok.Value); !ok {
			return tok, l.errorf(tok, "unexpected token")
		}
		tok.Type = NAG
	}
	return tok, nil
}

// numberToken reads move numbers ("12.", "12..."), results and castling
// written with zeros.
func (l *Lexer) numberToken(tok Token) (Token, error) {
	digits := l.readWhile(isDigit)
	if r := l.peek(); r == '.' {
		tok.Type, tok.Value = MoveNumber, digits+l.readWhile(func(r rune) bool { return r == '.' })
		return tok, nil
	} else if !isMoveRune(r) && r != '/' {
		tok.Type, tok.Value = MoveNumber, digits
		return tok, nil
	}
	word := digits + l.readWhile(func(r rune) bool { return isMoveRune(r) || r == '/' })
	tok.Value = word
	switch {
	case word == "1-0" || word == "0-1" || word == "1/2-1/2":
		tok.Type = Result
	case strings.HasPrefix(word, "0-0"):
		tok.Type = SAN
	default:
		return tok, l.errorf(tok, "unexpected token")
	}
	return tok, nil
}

func (l *Lexer) tagToken(tok Token) (Token, error) {
	r := l.peek()
	switch {
	case r == ']':
		l.advance()
		l.inTag = false
		tok.Type, tok.Value = TagEnd, "]"
	case r == '"':
		l.advance()
		var sb strings.Builder
		for {
			if l.pos >= len(l.input) {
				tok.Value = sb.String()
				return tok, l.errorf(tok, "unterminated header value")
			}
			c := l.advance()
			if c == '"' {
				break
			}
			if c == '\\' && l.pos < len(l.input) {
				c = l.advance()
			}
			sb.WriteRune(c)
		}
		tok.Type, tok.Value = TagValue, sb.String()
	case unicode.IsLetter(r) || isDigit(r) || r == '_':
		tok.Type = TagKey
		tok.Value = l.readWhile(func(r rune) bool { return unicode.IsLetter(r) || isDigit(r) || r == '_' })
	default:
		tok.Value = string(l.advance())
		return tok, l.errorf(tok, "malformed header")
	}
	return tok, nil
}

func (l *Lexer) readWhile(pred func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.input) && pred(l.peek()) {
		l.advance()
	}
	return l.input[start:l.pos]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isMoveRune(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || strings.ContainsRune("-=+#!?:", r)
}

func isGlyphRune(r rune) bool {
	return strings.ContainsRune("!?=+-/~", r) || unicode.IsSymbol(r) || (r > unicode.MaxASCII && !unicode.IsSpace(r) && !unicode.IsLetter(r))
}
