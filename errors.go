package movetree

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("movetree: parse error")
	// ErrIllegalMove is returned when the oracle rejects a move.
	ErrIllegalMove = errors.New("movetree: illegal move")
	// ErrNotFound is returned for unknown or deleted move indices.
	ErrNotFound = errors.New("movetree: move not found")
	// ErrNotAVariation is returned when promoting a move that is already
	// the main continuation.
	ErrNotAVariation = errors.New("movetree: move is not a variation")
	// ErrInvalidFEN is returned for starting positions the oracle cannot read.
	ErrInvalidFEN = errors.New("movetree: invalid FEN")
)

// ParseError describes malformed notation. Offset is the byte offset into
// the input; Line and Column are one based.
type ParseError struct {
	Message string
	Token   string
	Offset  int
	Line    int
	Column  int
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("movetree: %s at line %d, column %d", e.Message, e.Line, e.Column)
	if e.Token != "" {
		msg += fmt.Sprintf(" near %q", e.Token)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, e.g. ErrIllegalMove.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func notFound(i Index) error {
	return fmt.Errorf("%w: index %d", ErrNotFound, i)
}
