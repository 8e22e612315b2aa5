// Package engine provides scenario execution for the conformance harness.
//
// Each scenario runs against a fresh guest/host pair: an emulated
// host.Device wrapped in an InterruptingPort, and a debuglog.Logger
// driving it. Actions replay guest behavior; checkers assert on what
// the host captured.
package engine

import (
	"context"
	"time"

	"github.com/gbadbg/gbadbg-go/internal/harness/loader"
	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/debuglog"
	"github.com/gbadbg/gbadbg-go/pkg/host"
)

// ScenarioResult represents the outcome of a single scenario.
type ScenarioResult struct {
	// Scenario is the scenario that was executed.
	Scenario *loader.Scenario

	// Passed indicates if all steps passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// StepResults contains results for each step.
	StepResults []*StepResult

	// Duration is how long the scenario took.
	Duration time.Duration

	// StartTime when the scenario started.
	StartTime time.Time

	// EndTime when the scenario finished.
	EndTime time.Time

	// Skipped indicates if the scenario was skipped.
	Skipped bool

	// SkipReason explains why the scenario was skipped.
	SkipReason string
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	// Step is the step that was executed.
	Step *loader.Step

	// StepIndex is the index of this step (0-based).
	StepIndex int

	// Passed indicates if the step passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// ExpectResults maps expectation keys to their assertion results.
	ExpectResults map[string]*ExpectResult

	// Duration is how long the step took.
	Duration time.Duration

	// Output contains any captured output from the step.
	Output map[string]interface{}
}

// ExpectResult represents the result of checking an expectation.
type ExpectResult struct {
	// Key is the expectation key (e.g., "record_count").
	Key string

	// Expected is the expected value.
	Expected interface{}

	// Actual is the actual value.
	Actual interface{}

	// Passed indicates if the expectation was met.
	Passed bool

	// Message describes the result.
	Message string
}

// SuiteResult represents the outcome of running a scenario suite.
type SuiteResult struct {
	// SuiteName identifies the suite.
	SuiteName string

	// Results contains results for each scenario.
	Results []*ScenarioResult

	// PassCount is the number of passed scenarios.
	PassCount int

	// FailCount is the number of failed scenarios.
	FailCount int

	// SkipCount is the number of skipped scenarios.
	SkipCount int

	// Duration is the total time for all scenarios.
	Duration time.Duration
}

// ActionHandler processes a scenario step action.
// Returns outputs to make available for subsequent steps, and an error
// if the action failed.
type ActionHandler func(ctx context.Context, step *loader.Step, state *State) (map[string]interface{}, error)

// ExpectChecker checks an expectation against harness state.
type ExpectChecker func(key string, expected interface{}, state *State) *ExpectResult

// State holds the guest/host pair a scenario executes against.
type State struct {
	// Device is the emulated host device.
	Device *host.Device

	// Port wraps the device and can fire an interrupt hook mid-send.
	Port *InterruptingPort

	// Logger is the guest logger driving the port.
	Logger *debuglog.Logger

	// Records collects everything the device captured.
	Records *capture.Buffer

	// Outputs accumulated from previous steps.
	Outputs map[string]interface{}

	// Context for cancellation.
	Context context.Context
}

// NewState builds a fresh guest/host pair for one scenario. The extra
// sink, when non-nil, receives every record alongside the in-memory
// buffer.
func NewState(ctx context.Context, sc *loader.Scenario, extra capture.Sink) *State {
	records := capture.NewBuffer()

	var sink capture.Sink = records
	if extra != nil {
		sink = capture.NewMultiSink(records, extra)
	}

	dev := host.New(host.Config{
		Capacity:        sc.Capacity,
		Sink:            sink,
		DisableProbeAck: sc.HostAbsent,
	})
	port := WrapPort(dev)

	return &State{
		Device:  dev,
		Port:    port,
		Logger:  debuglog.New(port),
		Records: records,
		Outputs: make(map[string]interface{}),
		Context: ctx,
	}
}

// Get retrieves a value from outputs.
func (s *State) Get(key string) (interface{}, bool) {
	v, ok := s.Outputs[key]
	return v, ok
}

// Set stores a value in outputs.
func (s *State) Set(key string, value interface{}) {
	s.Outputs[key] = value
}

// EngineConfig configures the scenario engine.
type EngineConfig struct {
	// DefaultTimeout is the default timeout for scenarios.
	DefaultTimeout time.Duration

	// StepTimeout is the default timeout for individual steps.
	StepTimeout time.Duration

	// SuiteTimeout bounds a whole suite run. Zero derives it from the
	// scenario timeouts.
	SuiteTimeout time.Duration

	// StopOnFirstFailure stops execution after the first failure.
	StopOnFirstFailure bool

	// CaptureSink, when non-nil, receives every record produced by
	// every scenario, e.g. a capture.FileSink archiving the run.
	CaptureSink capture.Sink

	// OnScenarioComplete is called after each scenario, e.g. for
	// progressive reporting.
	OnScenarioComplete func(*ScenarioResult)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		DefaultTimeout: 30 * time.Second,
		StepTimeout:    10 * time.Second,
	}
}
