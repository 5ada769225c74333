package models

import "fmt"

// FailureReason is the code recorded against a declaration that is not, or no
// longer, wired. The numeric values are stable wire codes so collaborator
// codes can be recorded verbatim.
type FailureReason int

const (
	FailureUnknown                FailureReason = 0
	FailureExceptionOnInit        FailureReason = 1
	FailureNoMatchingContext      FailureReason = 2
	FailureServiceNotGettable     FailureReason = 3
	FailureContextFailure         FailureReason = 4
	FailureShadowedByOtherService FailureReason = 5
	FailureValidationFailed       FailureReason = 6
)

var reasonNames = map[FailureReason]string{
	FailureUnknown:                "UNKNOWN",
	FailureExceptionOnInit:        "EXCEPTION_ON_INIT",
	FailureNoMatchingContext:      "NO_MATCHING_CONTEXT",
	FailureServiceNotGettable:     "SERVICE_NOT_GETTABLE",
	FailureContextFailure:         "CONTEXT_FAILURE",
	FailureShadowedByOtherService: "SHADOWED_BY_OTHER_SERVICE",
	FailureValidationFailed:       "VALIDATION_FAILED",
}

func (r FailureReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REASON_%d", int(r))
}

func (r FailureReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *FailureReason) UnmarshalText(text []byte) error {
	for reason, name := range reasonNames {
		if name == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown failure reason %q", text)
}
