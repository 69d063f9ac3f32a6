package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrLegacyMarker indicates a declaration used the bare declare_lint! macro.
	ErrLegacyMarker = errors.New("parser: declare_lint! is not allowed, use declare_clippy_lint! instead")
	// ErrUnterminated indicates input ended while a declaration was still open.
	ErrUnterminated = errors.New("parser: unterminated lint declaration")
	// ErrUnknownGroup indicates a group token missing from the group level table.
	ErrUnknownGroup = errors.New("parser: unknown lint group")
	// ErrNoConfigBlock indicates the configuration file has no define_Conf! block.
	ErrNoConfigBlock = errors.New("parser: no define_Conf! block found")
)

// StructuralError reports input that violates the declaration conventions the
// scanner depends on. A scan that hits one should not produce a catalog.
type StructuralError struct {
	File string
	Line int
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// MissingNameError reports a declaration block that closed before a lint name
// was found. The declaration is dropped and scanning continues.
type MissingNameError struct {
	File string
	Line int
}

func (e *MissingNameError) Error() string {
	return fmt.Sprintf("%s:%d: missing lint name in declaration", e.File, e.Line)
}

// IsStructural reports whether err is, or wraps, a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsRecoverable reports whether err only affects a single declaration.
func IsRecoverable(err error) bool {
	var me *MissingNameError
	return errors.As(err, &me)
}
