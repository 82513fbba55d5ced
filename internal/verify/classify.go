package verify

import (
	"regexp"
	"strings"
)

// Greeting formats used by the major hosting providers. The provider prints
// one of these after a successful key authentication, naming the account the
// key is bound to.
var identityPatterns = []*regexp.Regexp{
	// GitHub: "Hi octocat! You've successfully authenticated, but GitHub
	// does not provide shell access."
	regexp.MustCompile(`(?i)\bHi ([^!\s]+)!`),
	// GitLab: "Welcome to GitLab, @octocat!"
	regexp.MustCompile(`(?i)Welcome to [^,]+, @([^!\s]+)!`),
	// Gitea/Forgejo: "Hi there, octocat! You've successfully authenticated..."
	regexp.MustCompile(`(?i)\bHi there, ([^!\s]+)!`),
}

var successMarkers = []string{
	"successfully authenticated",
	"welcome to",
}

var denialMarkers = []string{
	"permission denied",
	"access denied",
	"not authorized",
}

// Classify maps a host greeting to an outcome. It is a pure function of the
// transcript text so fixtures can drive it; the second return is the account
// name the host reported, when one could be extracted.
//
// Classify only handles transcripts from sessions that got past the
// handshake. Handshake and transport failures are categorized by the probe
// itself before any transcript exists.
func Classify(transcript, expectedIdentity string) (Outcome, string) {
	lower := strings.ToLower(transcript)

	for _, marker := range denialMarkers {
		if strings.Contains(lower, marker) {
			return OutcomeRejected, ""
		}
	}

	if observed := extractIdentity(transcript); observed != "" {
		if strings.EqualFold(observed, expectedIdentity) {
			return OutcomeAuthenticatedAsExpected, observed
		}
		return OutcomeAuthenticatedAsOther, observed
	}

	// No identity in the greeting. Fall back to marker + substring checks:
	// an authenticated session that mentions the expected account counts,
	// anything else authenticated as someone we can't name.
	for _, marker := range successMarkers {
		if strings.Contains(lower, marker) {
			if expectedIdentity != "" &&
				strings.Contains(lower, strings.ToLower(expectedIdentity)) {
				return OutcomeAuthenticatedAsExpected, expectedIdentity
			}
			return OutcomeAuthenticatedAsOther, ""
		}
	}

	// Authenticated (we held a session) but the host said nothing we
	// recognize. Treat as the wrong identity rather than success: success
	// requires positive confirmation.
	return OutcomeAuthenticatedAsOther, ""
}

// extractIdentity pulls the account name out of a provider greeting.
func extractIdentity(transcript string) string {
	for _, re := range identityPatterns {
		if m := re.FindStringSubmatch(transcript); m != nil {
			return m[len(m)-1]
		}
	}
	return ""
}
