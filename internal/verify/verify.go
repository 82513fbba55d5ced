// Package verify performs a non-destructive authentication probe against the
// hosting provider and classifies the result. No repository data moves; the
// probe only proves which account, if any, the configured credential maps to.
package verify

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/BhargavaRam10/gitup/pkg/sshprobe"
)

// Outcome is the probe's classification of the host's response.
type Outcome int

const (
	// OutcomeAuthenticatedAsExpected is the only success: the host
	// confirmed the expected account.
	OutcomeAuthenticatedAsExpected Outcome = iota

	// OutcomeAuthenticatedAsOther means a credential worked, but for a
	// different account. Common when multiple keys exist and the wrong
	// one is active.
	OutcomeAuthenticatedAsOther

	// OutcomeHostKeyUnknown means the host's own identity can't be
	// verified against known_hosts. Requires an explicit trust decision.
	OutcomeHostKeyUnknown

	// OutcomeRejected means the host refused the credential.
	OutcomeRejected

	// OutcomeNetworkError covers DNS failures, timeouts, and refused or
	// dropped connections.
	OutcomeNetworkError
)

// String returns a short identifier for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticatedAsExpected:
		return "authenticated-as-expected"
	case OutcomeAuthenticatedAsOther:
		return "authenticated-as-other"
	case OutcomeHostKeyUnknown:
		return "host-key-unknown"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNetworkError:
		return "network-error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the outcome as its string identifier.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Result is the probe outcome plus the evidence behind it. Ephemeral:
// produced and consumed within a single invocation, never persisted.
type Result struct {
	Outcome          Outcome       `json:"outcome"`
	RawTranscript    string        `json:"raw_transcript,omitempty"`
	ObservedIdentity string        `json:"observed_identity,omitempty"`
	Suggestion       string        `json:"suggestion,omitempty"`
	Latency          time.Duration `json:"-"`
}

// MarshalJSON adds the latency in milliseconds alongside the tagged fields.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		LatencyMS int64 `json:"latency_ms"`
	}{alias(r), r.Latency.Milliseconds()})
}

// Options controls how the probe connects.
type Options struct {
	// IdentityFile is the private key whose registration is being
	// verified.
	IdentityFile string

	// Passphrase decrypts IdentityFile when it is protected.
	Passphrase []byte

	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string

	// ConfigPath overrides ~/.ssh/config.
	ConfigPath string

	// Timeout bounds the whole probe. Defaults to sshprobe.DefaultTimeout.
	Timeout time.Duration

	// User overrides the SSH login name. Defaults to "git".
	User string

	// InsecureSkipHostKey disables host key verification. Test use only.
	InsecureSkipHostKey bool

	// DisableAgent skips SSH agent keys so only IdentityFile is tried.
	DisableAgent bool

	Logger logger.Logger
}

// Probe opens an authentication-only session to the binding's host and
// classifies the response. Safe to call repeatedly; it mutates nothing and
// performs no retries.
func Probe(binding remote.Binding, expectedIdentity string, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	start := time.Now()

	client, err := sshprobe.Dial(binding.Host, sshprobe.Options{
		User:                opts.User,
		IdentityFile:        opts.IdentityFile,
		Passphrase:          opts.Passphrase,
		KnownHostsPath:      opts.KnownHostsPath,
		ConfigPath:          opts.ConfigPath,
		Timeout:             opts.Timeout,
		InsecureSkipHostKey: opts.InsecureSkipHostKey,
		DisableAgent:        opts.DisableAgent,
	})
	if err != nil {
		result := classifyDialError(binding, err)
		result.Latency = time.Since(start)
		log.Debug("probe %s: %s (%v)", binding.Host, result.Outcome, err)
		return result
	}
	defer client.Close()

	transcript, err := client.Greeting()
	if err != nil {
		log.Debug("probe %s: session failed: %v", binding.Host, err)
		return Result{
			Outcome:       OutcomeNetworkError,
			RawTranscript: transcript,
			Suggestion:    "The connection dropped mid-session. Check your network and re-run.",
			Latency:       time.Since(start),
		}
	}

	outcome, observed := Classify(transcript, expectedIdentity)
	result := Result{
		Outcome:          outcome,
		RawTranscript:    transcript,
		ObservedIdentity: observed,
		Suggestion:       suggestionFor(outcome, binding, expectedIdentity, observed),
		Latency:          time.Since(start),
	}
	log.Debug("probe %s: %s (identity=%q)", binding.Host, outcome, observed)
	return result
}

// classifyDialError maps handshake and transport failures onto the outcome
// taxonomy. This is the single parsing boundary for error text; callers only
// ever see the enumerated outcome.
func classifyDialError(binding remote.Binding, err error) Result {
	var unknownErr *sshprobe.HostKeyUnknownError
	if stderrors.As(err, &unknownErr) {
		return Result{
			Outcome:       OutcomeHostKeyUnknown,
			RawTranscript: err.Error(),
			Suggestion:    unknownErr.Suggestion(),
		}
	}

	var mismatchErr *sshprobe.HostKeyMismatchError
	if stderrors.As(err, &mismatchErr) {
		return Result{
			Outcome:       OutcomeHostKeyUnknown,
			RawTranscript: err.Error(),
			Suggestion:    mismatchErr.Suggestion(),
		}
	}

	var encErr *sshprobe.EncryptedKeyError
	if stderrors.As(err, &encErr) {
		return Result{
			Outcome:       OutcomeRejected,
			RawTranscript: err.Error(),
			Suggestion:    "The key is passphrase protected. Re-run with --passphrase to unlock it.",
		}
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "unable to authenticate"),
		strings.Contains(errStr, "no supported methods"),
		strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "no ssh auth methods"):
		return Result{
			Outcome:       OutcomeRejected,
			RawTranscript: err.Error(),
			Suggestion:    suggestionFor(OutcomeRejected, binding, "", ""),
		}
	case strings.Contains(errStr, "host key"):
		return Result{
			Outcome:       OutcomeHostKeyUnknown,
			RawTranscript: err.Error(),
			Suggestion:    "Trust the host explicitly first: gitup trust " + binding.Host,
		}
	default:
		// timeout, refused, unreachable, DNS - all transport level
		return Result{
			Outcome:       OutcomeNetworkError,
			RawTranscript: err.Error(),
			Suggestion:    suggestionForNetworkError(errStr, binding),
		}
	}
}

// suggestionFor builds the per-outcome remediation hint.
func suggestionFor(outcome Outcome, binding remote.Binding, expected, observed string) string {
	switch outcome {
	case OutcomeAuthenticatedAsExpected:
		return ""
	case OutcomeAuthenticatedAsOther:
		if observed != "" {
			return "The host authenticated you as '" + observed + "', not '" + expected + "'.\n" +
				"  Another key or token is taking precedence. Check loaded keys (ssh-add -l)\n" +
				"  and remove or reorder the one bound to the wrong account."
		}
		return "A credential worked but the host did not confirm the expected account.\n" +
			"  Check which keys are loaded: ssh-add -l"
	case OutcomeHostKeyUnknown:
		return "Trust the host explicitly first: gitup trust " + binding.Host
	case OutcomeRejected:
		return "The host refused the credential. Register your public key with the\n" +
			"  provider (gitup key show prints it), then re-run."
	case OutcomeNetworkError:
		return "Check your network connection and that " + binding.Host + " is reachable."
	default:
		return ""
	}
}

func suggestionForNetworkError(errStr string, binding remote.Binding) string {
	switch {
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "i/o timeout"):
		return "Connection timed out. The host might be offline or blocked by a firewall."
	case strings.Contains(errStr, "connection refused"):
		return "Connection refused. Is " + binding.Host + " the right host?"
	case strings.Contains(errStr, "no such host"):
		return "DNS lookup failed for " + binding.Host + ". Check the host name."
	case strings.Contains(errStr, "no route to host"), strings.Contains(errStr, "network is unreachable"):
		return "Can't route to " + binding.Host + ". Check your network connection."
	default:
		return "Check your network connection and that " + binding.Host + " is reachable."
	}
}
