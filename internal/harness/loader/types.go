// Package loader provides YAML scenario loading for the conformance harness.
package loader

import "fmt"

// Scenario represents a single conformance scenario loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "DBG-SEND-001").
	ID string `yaml:"id"`

	// Name is a human-readable name for the scenario.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Capacity overrides the device buffer size in bytes. Zero means
	// the protocol default. Small values force chunking with short
	// messages.
	Capacity int `yaml:"capacity,omitempty"`

	// HostAbsent runs the scenario against a device that never
	// acknowledges the enable handshake.
	HostAbsent bool `yaml:"host_absent,omitempty"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	// Timeout is the maximum duration for the scenario (e.g., "30s").
	Timeout string `yaml:"timeout,omitempty"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`

	// Skip excludes the scenario from runs.
	Skip bool `yaml:"skip,omitempty"`

	// SkipReason explains why the scenario is skipped.
	SkipReason string `yaml:"skip_reason,omitempty"`
}

// Step represents a single action in a scenario.
type Step struct {
	// Action is the action to perform (e.g., "init", "emit").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]interface{} `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Timeout overrides the scenario-level timeout for this step.
	Timeout string `yaml:"timeout,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return e.File + ": " + e.Message
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
