package publisher

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks failures where an episode does not meet the
	// requirements for publication.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks operations that reference a missing episode or series.
	ErrNotFound = errors.New("not found")
	// ErrBadSchedule marks schedule requests with unusable publish times.
	ErrBadSchedule = errors.New("bad schedule")
)

// ValidationError names every requirement an episode is missing so operators
// can fix the catalog entry instead of guessing.
type ValidationError struct {
	EpisodeID string
	Missing   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("episode %s is not publishable: missing %s", e.EpisodeID, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is match a ValidationError against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
