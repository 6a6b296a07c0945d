package hacfstar

import (
	"fmt"

	"github.com/pkg/errors"
)

// Translation failures come in two classes. Invariant errors mean the input
// snapshot violates the checker's contract (a shape that should never reach
// the translator); unsupported errors mean the construct is recognized but
// has no translation rule yet. Both abort the current translation unit so no
// partial file is written. Output I/O failures are ordinary errors handled at
// the driver.
type errClass int

const (
	classInvariant errClass = iota
	classUnsupported
)

type translateError struct {
	class errClass
	msg   string
}

func (e *translateError) Error() string {
	switch e.class {
	case classUnsupported:
		return "unsupported: " + e.msg
	default:
		return "internal invariant violated: " + e.msg
	}
}

func invariantErrf(format string, args ...interface{}) error {
	return errors.WithStack(&translateError{classInvariant, fmt.Sprintf(format, args...)})
}

func unsupportedErrf(format string, args ...interface{}) error {
	return errors.WithStack(&translateError{classUnsupported, fmt.Sprintf(format, args...)})
}

// IsInvariant reports whether err is an internal invariant violation, i.e.
// an upstream contract breach.
func IsInvariant(err error) bool {
	te, ok := errors.Cause(err).(*translateError)
	return ok && te.class == classInvariant
}

// IsUnsupported reports whether err marks a construct with no translation
// rule.
func IsUnsupported(err error) bool {
	te, ok := errors.Cause(err).(*translateError)
	return ok && te.class == classUnsupported
}
