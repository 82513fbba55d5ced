package cli

import "github.com/BhargavaRam10/gitup/internal/verify"

// Process exit codes. Distinct codes per probe outcome let scripts react to
// "wrong account" differently from "host unreachable".
const (
	ExitSuccess              = 0
	ExitFailure              = 1
	ExitAuthenticatedAsOther = 2
	ExitHostKeyUnknown       = 3
	ExitRejected             = 4
	ExitNetworkError         = 5
	ExitGenerationFailed     = 6
	ExitRepository           = 7
)

// exitCodeForOutcome maps a probe outcome to the process exit code.
func exitCodeForOutcome(outcome verify.Outcome) int {
	switch outcome {
	case verify.OutcomeAuthenticatedAsExpected:
		return ExitSuccess
	case verify.OutcomeAuthenticatedAsOther:
		return ExitAuthenticatedAsOther
	case verify.OutcomeHostKeyUnknown:
		return ExitHostKeyUnknown
	case verify.OutcomeRejected:
		return ExitRejected
	case verify.OutcomeNetworkError:
		return ExitNetworkError
	default:
		return ExitFailure
	}
}
