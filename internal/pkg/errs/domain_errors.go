package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers.
// Cascade-level sentinels (cyclic dependency, negative cost) live in the
// costing package next to the code that raises them.
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrUnknownJobType = errors.New("unknown job type")
)
