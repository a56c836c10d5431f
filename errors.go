package digest

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig reports a key, salt, personalization or digest
	// size outside the algorithm's parameter space.
	ErrInvalidConfig = errors.New("digest: invalid configuration")

	// ErrFinalized reports input fed to a hasher after finalization.
	ErrFinalized = errors.New("digest: hasher already finalized")

	// ErrUnsupported reports an unknown algorithm, or an operation the
	// algorithm cannot support, such as HMAC over an XOF.
	ErrUnsupported = errors.New("digest: unsupported algorithm")

	// ErrNotXOF reports FinalizeXOF on a fixed-output algorithm.
	ErrNotXOF = errors.New("digest: not an extendable-output algorithm")
)
