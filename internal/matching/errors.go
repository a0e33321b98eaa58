package matching

import "fmt"

// NoProfileError is returned when a match is requested before the user has
// created a profile
type NoProfileError struct{}

func (e *NoProfileError) Error() string {
	return "no profile found: create a profile before matching jobs"
}

// JobNotFoundError is returned when the requested job does not exist
type JobNotFoundError struct {
	JobID int64
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job not found: %d", e.JobID)
}

// UnparsableResponseError is returned when no JSON object can be recovered
// from the model's reply. Raw carries a snippet of the reply for diagnostics.
type UnparsableResponseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *UnparsableResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unparsable response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("unparsable response: %s", e.Message)
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Cause
}
