package engine

import (
	"context"
	"testing"

	"github.com/gbadbg/gbadbg-go/internal/harness/loader"
	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/status"
)

func newCheckerState(t *testing.T) *State {
	t.Helper()
	return NewState(context.Background(), &loader.Scenario{ID: "SC-CHECK"}, nil)
}

// TestCheckerRecordCount tests the record_count checker.
func TestCheckerRecordCount(t *testing.T) {
	state := newCheckerState(t)
	state.Records.Capture(capture.Record{Message: "a"})
	state.Records.Capture(capture.Record{Message: "b"})

	tests := []struct {
		expected interface{}
		passed   bool
	}{
		{2, true},
		{3, false},
		{0, false},
		{"two", false},
	}

	for _, tt := range tests {
		result := checkRecordCount(CheckerNameRecordCount, tt.expected, state)
		if result.Passed != tt.passed {
			t.Errorf("recordCount(2 records, %v) = %v, want %v: %s", tt.expected, result.Passed, tt.passed, result.Message)
		}
	}
}

// TestCheckerRecords tests the records checker against string and map
// expectation items.
func TestCheckerRecords(t *testing.T) {
	state := newCheckerState(t)
	state.Records.Capture(capture.Record{Message: "boot", Level: level.Info})
	state.Records.Capture(capture.Record{Message: "oops", Level: level.Error})

	tests := []struct {
		name     string
		expected interface{}
		passed   bool
	}{
		{
			name:     "messages match",
			expected: []interface{}{"boot", "oops"},
			passed:   true,
		},
		{
			name:     "length mismatch",
			expected: []interface{}{"boot"},
			passed:   false,
		},
		{
			name:     "message mismatch",
			expected: []interface{}{"boot", "wrong"},
			passed:   false,
		},
		{
			name: "maps with levels",
			expected: []interface{}{
				map[string]interface{}{"message": "boot", "level": "info"},
				map[string]interface{}{"message": "oops", "level": "error"},
			},
			passed: true,
		},
		{
			name: "level mismatch",
			expected: []interface{}{
				map[string]interface{}{"level": "warn"},
				"oops",
			},
			passed: false,
		},
		{
			name: "level only",
			expected: []interface{}{
				map[string]interface{}{"level": "info"},
				map[string]interface{}{"level": "error"},
			},
			passed: true,
		},
		{
			name:     "not a list",
			expected: "boot",
			passed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkRecords(CheckerNameRecords, tt.expected, state)
			if result.Passed != tt.passed {
				t.Errorf("records(%v) = %v, want %v: %s", tt.expected, result.Passed, tt.passed, result.Message)
			}
		})
	}
}

// TestCheckerBooleans tests the device and logger state checkers.
func TestCheckerBooleans(t *testing.T) {
	state := newCheckerState(t)

	// Fresh pair: nothing enabled, nothing halted, nothing finished.
	for _, tt := range []struct {
		name    string
		checker ExpectChecker
	}{
		{CheckerNameEnabled, checkEnabled},
		{CheckerNameHalted, checkHalted},
		{CheckerNameFinished, checkFinished},
		{CheckerNameReady, checkReady},
	} {
		if result := tt.checker(tt.name, false, state); !result.Passed {
			t.Errorf("%s should be false on a fresh pair: %s", tt.name, result.Message)
		}
		if result := tt.checker(tt.name, true, state); result.Passed {
			t.Errorf("%s = true should fail on a fresh pair", tt.name)
		}
	}

	// Walk the pair through init, fatal, and completion.
	if err := state.Logger.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if result := checkEnabled(CheckerNameEnabled, true, state); !result.Passed {
		t.Errorf("enabled should be true after init: %s", result.Message)
	}
	if result := checkReady(CheckerNameReady, true, state); !result.Passed {
		t.Errorf("ready should be true after init: %s", result.Message)
	}

	state.Logger.Log(level.Fatal, "x")
	if result := checkHalted(CheckerNameHalted, true, state); !result.Passed {
		t.Errorf("halted should be true after fatal: %s", result.Message)
	}

	status.NewSignal(state.Device.StatusCell()).Done()
	if result := checkFinished(CheckerNameFinished, true, state); !result.Passed {
		t.Errorf("finished should be true after completion: %s", result.Message)
	}

	// Bad expectation type fails without panicking.
	if result := checkEnabled(CheckerNameEnabled, 42, state); result.Passed {
		t.Error("non-boolean expectation should fail")
	}
}

// TestCheckerPortWrites tests the port_writes checker.
func TestCheckerPortWrites(t *testing.T) {
	state := newCheckerState(t)
	if err := state.Logger.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	state.Logger.Log(level.Info, "one chunk")

	if result := checkPortWrites(CheckerNamePortWrites, 1, state); !result.Passed {
		t.Errorf("port_writes should be 1: %s", result.Message)
	}
	if result := checkPortWrites(CheckerNamePortWrites, 5, state); result.Passed {
		t.Error("port_writes = 5 should fail after one write")
	}
	if result := checkPortWrites(CheckerNamePortWrites, "many", state); result.Passed {
		t.Error("non-integer expectation should fail")
	}
}

// TestAsInt tests integer coercion from YAML-decoded values.
func TestAsInt(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    int
		wantErr bool
	}{
		{42, 42, false},
		{int64(7), 7, false},
		{uint64(3), 3, false},
		{float64(2), 2, false},
		{"42", 0, true},
		{true, 0, true},
	}

	for _, tt := range tests {
		got, err := asInt(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("asInt(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("asInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestAsBool tests boolean coercion from YAML-decoded values.
func TestAsBool(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    bool
		wantErr bool
	}{
		{true, true, false},
		{false, false, false},
		{"true", true, false},
		{"false", false, false},
		{"yes", false, true},
		{1, false, true},
	}

	for _, tt := range tests {
		got, err := asBool(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("asBool(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("asBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
