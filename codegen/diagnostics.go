package codegen

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"

	"github.com/sourcelang/bashc/cmdtree"
)

// Severity classifies a Diagnostic into one of the two non-fatal
// kinds the generator reports (§7 categories 2 and 3); fatal errors (§7 category 1) are not Diagnostics —
// they abort the current emit call and surface as a *FatalError.
type Severity int

const (
	// NYI is "not yet implemented": an unsupported construct. No code
	// is emitted for it, but generation continues (§7 category 3).
	NYI Severity = iota
	// Reported is a user-facing but non-fatal mistranslation input,
	// e.g. "break" outside a loop (§7 category 2).
	Reported
)

func (s Severity) String() string {
	if s == NYI {
		return "NYI"
	}
	return "error"
}

// Diagnostic is one non-fatal event collected during generation.
type Diagnostic struct {
	Severity Severity
	Pos      cmdtree.Pos
	Message  string
}

func (d Diagnostic) String() string {
	if d.Severity == NYI {
		return fmt.Sprintf("NYI: %s", d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// FatalError reports an invariant violation (§7 category 1): an
// unknown connector, an unrecognised command kind reaching dispatch,
// or a CTIOC shrunk below zero size. Design Notes §9 asks for this to
// be a distinct error value from the generator entry point rather
// than a process abort, so the driver decides whether to abort or
// propagate.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return "bashc: fatal: " + e.Message }

func fatalf(format string, args ...any) error {
	return xerrors.Errorf("%w", &FatalError{Message: fmt.Sprintf(format, args...)})
}

// AsFatal reports whether err wraps a *FatalError, unwrapping it the
// way a caller would use errors.As / xerrors.As to decide whether to
// abort the process.
func AsFatal(err error) (*FatalError, bool) {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// errBreakContinueOutsideLoop is the reported error (§7 category 2,
// §4.4) for a break/continue with no enclosing loop frame to resolve
// against.
var errBreakContinueOutsideLoop = errors.New("'break'/'continue' only meaningful inside a loop")

// errNumericArgumentRequired and errTooManyArguments are the reported
// errors (§7 category 2, §4.5) for a malformed break/continue level
// argument.
var (
	errNumericArgumentRequired = errors.New("numeric argument required")
	errTooManyArguments        = errors.New("too many arguments")
)
