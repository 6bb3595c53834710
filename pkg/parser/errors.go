package parser

import (
	"errors"
	"fmt"

	"github.com/yaklabco/g4fmt/pkg/source"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrLex marks a malformed token, such as an unterminated literal.
	ErrLex = errors.New("lexical error")

	// ErrStructure marks malformed nesting or a missing delimiter.
	ErrStructure = errors.New("structural error")
)

// LexError describes a malformed token. The tokenizer recovers from it by
// emitting a best-effort token.
type LexError struct {
	Position source.Position
	Message  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Unwrap lets errors.Is match ErrLex.
func (e *LexError) Unwrap() error {
	return ErrLex
}

// StructuralError describes malformed nesting. The parser recovers from it by
// passing the rest of the input through as an opaque unit.
type StructuralError struct {
	Position source.Position
	Message  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Unwrap lets errors.Is match ErrStructure.
func (e *StructuralError) Unwrap() error {
	return ErrStructure
}
