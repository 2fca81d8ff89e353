package trigger

import "fmt"

// Cascade failure codes.
const (
	CodeCycle = "CYCLE_DETECTED"
	CodeQuota = "QUOTA_EXCEEDED"
)

// CascadeError reports a cascade the runtime refused to continue. The
// transaction it ran in must be rolled back; none of the cascade's writes
// survive.
type CascadeError struct {
	Code   string
	Change Change
	Steps  int
}

func (e *CascadeError) Error() string {
	switch e.Code {
	case CodeCycle:
		return fmt.Sprintf("trigger: cycle detected: %s dispatched twice", e.Change)
	case CodeQuota:
		return fmt.Sprintf("trigger: step quota exceeded after %d changes (last: %s)", e.Steps, e.Change)
	default:
		return fmt.Sprintf("trigger: cascade failed (%s): %s", e.Code, e.Change)
	}
}

func cycleError(c Change, steps int) *CascadeError {
	return &CascadeError{Code: CodeCycle, Change: c, Steps: steps}
}

func quotaError(c Change, steps int) *CascadeError {
	return &CascadeError{Code: CodeQuota, Change: c, Steps: steps}
}
