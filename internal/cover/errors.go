package cover

import "errors"

// The two fatal error kinds. Both mean the parsed tree and the supplied
// coverage disagree in a way that cannot be reconciled; an in-progress
// Add aborts without mutating any accumulated state.
var (
	// ErrCountNotFound reports a node whose enclosing function was
	// matched but which no engine range encloses.
	ErrCountNotFound = errors.New("no coverage range encloses node")

	// ErrUnknownNode reports a matched function root that was never
	// pre-registered during construction.
	ErrUnknownNode = errors.New("matched function root was not registered")
)
