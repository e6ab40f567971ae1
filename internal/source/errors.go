package source

import "codeberg.org/mutker/sentinel/internal/errors"

// ErrNoBackend is reported when no platform backend is compiled in.
const ErrNoBackend = errors.ErrorCode("source_no_backend")
