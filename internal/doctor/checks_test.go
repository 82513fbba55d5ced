package doctor

import (
	"testing"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.status.String(); got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
	fixErr   error
	fixCalls int
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return m.category }
func (m *mockCheck) Run() CheckResult { return m.result }
func (m *mockCheck) Fix() error {
	m.fixCalls++
	return m.fixErr
}

func TestRunAll(t *testing.T) {
	checks := []Check{
		&mockCheck{
			name:     "check1",
			category: "TEST",
			result:   CheckResult{Name: "check1", Status: StatusPass, Message: "OK"},
		},
		&mockCheck{
			name:     "check2",
			category: "TEST",
			result:   CheckResult{Name: "check2", Status: StatusFail, Message: "broken"},
		},
	}

	results := RunAll(checks)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "check1" || results[1].Name != "check2" {
		t.Errorf("results out of order: %v", results)
	}
}

func TestRunAllParallel(t *testing.T) {
	checks := make([]Check, 8)
	for i := range checks {
		checks[i] = &mockCheck{
			name:   "check",
			result: CheckResult{Status: StatusPass},
		}
	}

	results := RunAllParallel(checks)
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Status != StatusPass {
			t.Errorf("result %d: got status %v", i, r.Status)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "a", category: "KEY"},
		&mockCheck{name: "b", category: "KEY"},
		&mockCheck{name: "c", category: "HOST"},
	}

	grouped := GroupByCategory(checks)
	if len(grouped["KEY"]) != 2 {
		t.Errorf("expected 2 KEY checks, got %d", len(grouped["KEY"]))
	}
	if len(grouped["HOST"]) != 1 {
		t.Errorf("expected 1 HOST check, got %d", len(grouped["HOST"]))
	}
}

func TestHasFailuresAndIssues(t *testing.T) {
	allPass := []CheckResult{{Status: StatusPass}, {Status: StatusPass}}
	if HasFailures(allPass) {
		t.Error("no failures expected")
	}
	if HasIssues(allPass) {
		t.Error("no issues expected")
	}

	withWarn := []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}
	if HasFailures(withWarn) {
		t.Error("warn is not a failure")
	}
	if !HasIssues(withWarn) {
		t.Error("warn is an issue")
	}

	withFail := []CheckResult{{Status: StatusFail}}
	if !HasFailures(withFail) {
		t.Error("expected failure")
	}
}

func TestFixableCount(t *testing.T) {
	results := []CheckResult{
		{Status: StatusFail, Fixable: true},
		{Status: StatusWarn, Fixable: true},
		{Status: StatusFail, Fixable: false},
		{Status: StatusPass, Fixable: true}, // passing results don't count
	}
	if got := FixableCount(results); got != 2 {
		t.Errorf("expected 2 fixable, got %d", got)
	}
}

func TestSummary(t *testing.T) {
	clean := []CheckResult{{Status: StatusPass}}
	if got := Summary(clean); got != "Everything looks good" {
		t.Errorf("unexpected summary: %q", got)
	}

	one := []CheckResult{{Status: StatusFail}}
	if got := Summary(one); got != "1 issue found" {
		t.Errorf("unexpected summary: %q", got)
	}

	two := []CheckResult{{Status: StatusFail}, {Status: StatusWarn}}
	if got := Summary(two); got != "2 issues found" {
		t.Errorf("unexpected summary: %q", got)
	}
}
