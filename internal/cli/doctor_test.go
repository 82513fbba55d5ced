package cli

import (
	"testing"

	"github.com/BhargavaRam10/gitup/internal/doctor"
	"github.com/stretchr/testify/assert"
)

type fixableCheck struct {
	fixed bool
}

func (c *fixableCheck) Name() string     { return "fixable" }
func (c *fixableCheck) Category() string { return "TEST" }
func (c *fixableCheck) Run() doctor.CheckResult {
	if c.fixed {
		return doctor.CheckResult{Name: c.Name(), Status: doctor.StatusPass}
	}
	return doctor.CheckResult{Name: c.Name(), Status: doctor.StatusFail, Fixable: true}
}
func (c *fixableCheck) Fix() error {
	c.fixed = true
	return nil
}

func TestAttemptFixes(t *testing.T) {
	check := &fixableCheck{}
	checks := []doctor.Check{check}
	results := doctor.RunAll(checks)
	assert.Equal(t, doctor.StatusFail, results[0].Status)

	results = attemptFixes(checks, results)
	assert.True(t, check.fixed)
	assert.Equal(t, doctor.StatusPass, results[0].Status)
}

type unfixableCheck struct {
	fixCalls int
}

func (c *unfixableCheck) Name() string     { return "unfixable" }
func (c *unfixableCheck) Category() string { return "TEST" }
func (c *unfixableCheck) Run() doctor.CheckResult {
	return doctor.CheckResult{Name: c.Name(), Status: doctor.StatusFail}
}
func (c *unfixableCheck) Fix() error {
	c.fixCalls++
	return nil
}

func TestAttemptFixes_SkipsUnfixable(t *testing.T) {
	check := &unfixableCheck{}
	checks := []doctor.Check{check}
	results := attemptFixes(checks, doctor.RunAll(checks))
	assert.Equal(t, doctor.StatusFail, results[0].Status)
	assert.Zero(t, check.fixCalls)
}
