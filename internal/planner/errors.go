package planner

import (
	"errors"
	"fmt"
)

var (
	ErrNoTasks             = errors.New("no tasks provided")
	ErrMissingAPIKey       = errors.New("missing model API key")
	ErrUnparseableResponse = errors.New("failed to parse AI response")
	ErrRateLimited         = errors.New("too many schedule requests, try again shortly")
)

// UpstreamError is a non-success reply from the model provider.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.Status, e.Body)
}
