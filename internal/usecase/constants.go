package usecase

import "time"

const (
	// DefaultDirectoryTTL is how long a resolved directory item stays cached.
	DefaultDirectoryTTL = 5 * time.Minute

	// DefaultSweepInterval is how often the directory cache purges expired
	// entries in the background, on top of the lazy purge at lookup time.
	DefaultSweepInterval = time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
