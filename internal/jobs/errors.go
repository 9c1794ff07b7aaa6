package jobs

import "errors"

var (
	// ErrJobNotFound is returned for lookups of ids that were never created.
	ErrJobNotFound = errors.New("job not found")
	// ErrNoAudioFiles rejects creation requests without reference samples.
	ErrNoAudioFiles = errors.New("at least one audio file is required")
)
