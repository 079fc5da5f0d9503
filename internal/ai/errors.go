package ai

import (
	"errors"
	"fmt"
)

// UserMessage is what the traveller sees for any generation failure.
const UserMessage = "We couldn't generate your itinerary. The AI may have returned an invalid format. Please adjust your inputs and try again."

var (
	// ErrGenerationFailed matches every *GenerationError.
	ErrGenerationFailed = errors.New("itinerary generation failed")

	errEmptyReply = errors.New("empty reply from model")
)

// GenerationError collapses transport, empty-reply and parse failures into one kind.
// Cause is for logs only.
type GenerationError struct {
	Stage string
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("itinerary generation failed (%s)", e.Stage)
	}
	return fmt.Sprintf("itinerary generation failed (%s): %v", e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// UserMessage returns the fixed user-facing text.
func (e *GenerationError) UserMessage() string { return UserMessage }

// Fail wraps err as a GenerationError. An error that already is one is returned unchanged.
func Fail(stage string, err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Stage: stage, Cause: err}
}
