package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gbadbg/gbadbg-go/internal/harness/engine"
	"github.com/gbadbg/gbadbg-go/internal/harness/loader"
)

// TestEngineBasic tests basic engine functionality.
func TestEngineBasic(t *testing.T) {
	e := engine.New()

	// Register a simple handler
	e.RegisterHandler("test_action", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return map[string]interface{}{
			"result": "success",
		}, nil
	})

	sc := &loader.Scenario{
		ID:   "SC-001",
		Name: "Basic Scenario",
		Steps: []loader.Step{
			{
				Action: "test_action",
				Expect: map[string]interface{}{
					"result": "success",
				},
			},
		},
	}

	result := e.Run(context.Background(), sc)

	if !result.Passed {
		t.Errorf("Scenario should pass, error: %v", result.Error)
	}
	if len(result.StepResults) != 1 {
		t.Errorf("Expected 1 step result, got %d", len(result.StepResults))
	}
}

// TestEngineSteps tests sequential step execution.
func TestEngineSteps(t *testing.T) {
	e := engine.New()

	// Track step execution order
	var executionOrder []int

	e.RegisterHandler("step_one", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executionOrder = append(executionOrder, 1)
		return map[string]interface{}{"step_one_done": true}, nil
	})

	e.RegisterHandler("step_two", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executionOrder = append(executionOrder, 2)
		// Access output from step one
		if _, ok := state.Get("step_one_done"); !ok {
			return nil, errors.New("step_one_done not found")
		}
		return map[string]interface{}{"step_two_done": true}, nil
	})

	e.RegisterHandler("step_three", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executionOrder = append(executionOrder, 3)
		return map[string]interface{}{"step_three_done": true}, nil
	})

	sc := &loader.Scenario{
		ID:   "SC-STEPS",
		Name: "Steps Scenario",
		Steps: []loader.Step{
			{Action: "step_one", Expect: map[string]interface{}{"step_one_done": true}},
			{Action: "step_two", Expect: map[string]interface{}{"step_two_done": true}},
			{Action: "step_three", Expect: map[string]interface{}{"step_three_done": true}},
		},
	}

	result := e.Run(context.Background(), sc)

	if !result.Passed {
		t.Errorf("Scenario should pass, error: %v", result.Error)
	}
	if len(executionOrder) != 3 {
		t.Fatalf("Expected 3 steps executed, got %d", len(executionOrder))
	}
	for i, v := range executionOrder {
		if v != i+1 {
			t.Errorf("Step %d executed out of order: expected %d, got %d", i, i+1, v)
		}
	}
}

// TestEngineSkip tests the explicit skip flag.
func TestEngineSkip(t *testing.T) {
	e := engine.New()

	executed := false
	e.RegisterHandler("never", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executed = true
		return nil, nil
	})

	sc := &loader.Scenario{
		ID:         "SC-SKIP",
		Name:       "Skipped Scenario",
		Skip:       true,
		SkipReason: "hardware fault injection not available",
		Steps:      []loader.Step{{Action: "never"}},
	}

	result := e.Run(context.Background(), sc)

	if !result.Skipped {
		t.Error("Scenario should be skipped")
	}
	if result.SkipReason != "hardware fault injection not available" {
		t.Errorf("SkipReason = %q, want the scenario's reason", result.SkipReason)
	}
	if executed {
		t.Error("Steps should not execute for a skipped scenario")
	}

	// Without a reason, a default is filled in.
	sc2 := &loader.Scenario{
		ID:    "SC-SKIP-2",
		Skip:  true,
		Steps: []loader.Step{{Action: "never"}},
	}
	result2 := e.Run(context.Background(), sc2)
	if !result2.Skipped || result2.SkipReason == "" {
		t.Errorf("Expected skipped with default reason, got skipped=%v reason=%q", result2.Skipped, result2.SkipReason)
	}
}

// TestDefaultChecker_PresentValue tests that "present" means "key exists".
func TestDefaultChecker_PresentValue(t *testing.T) {
	e := engine.New()

	e.RegisterHandler("emit_field", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return map[string]interface{}{
			"session_field": "a1b2c3",
			"count_field":   2,
		}, nil
	})

	sc := &loader.Scenario{
		ID:   "SC-PRESENT",
		Name: "Present Checker",
		Steps: []loader.Step{
			{
				Action: "emit_field",
				Expect: map[string]interface{}{
					"session_field": "present",
					"count_field":   "present",
				},
			},
		},
	}

	result := e.Run(context.Background(), sc)
	if !result.Passed {
		for _, sr := range result.StepResults {
			for _, er := range sr.ExpectResults {
				if !er.Passed {
					t.Errorf("expectation %s failed: %s", er.Key, er.Message)
				}
			}
		}
	}
}

// TestDefaultChecker_PresentValue_MissingKey tests that "present" fails for missing keys.
func TestDefaultChecker_PresentValue_MissingKey(t *testing.T) {
	e := engine.New()

	e.RegisterHandler("emit_nothing", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	})

	sc := &loader.Scenario{
		ID:   "SC-PRESENT-MISSING",
		Name: "Present Missing Key",
		Steps: []loader.Step{
			{
				Action: "emit_nothing",
				Expect: map[string]interface{}{
					"session_field": "present",
				},
			},
		},
	}

	result := e.Run(context.Background(), sc)
	if result.Passed {
		t.Error("expected scenario to fail when key is missing")
	}
}

// TestEngineTimeout tests timeout handling.
func TestEngineTimeout(t *testing.T) {
	config := engine.DefaultConfig()
	config.StepTimeout = 100 * time.Millisecond

	e := engine.NewWithConfig(config)

	e.RegisterHandler("slow_action", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
			return map[string]interface{}{"done": true}, nil
		}
	})

	sc := &loader.Scenario{
		ID:    "SC-TIMEOUT",
		Name:  "Timeout Scenario",
		Steps: []loader.Step{{Action: "slow_action"}},
	}

	result := e.Run(context.Background(), sc)

	if result.Passed {
		t.Error("Scenario should fail due to timeout")
	}
	if result.Error == nil {
		t.Error("Error should be set")
	}
}

// TestEngineResults tests suite result collection.
func TestEngineResults(t *testing.T) {
	e := engine.New()

	e.RegisterHandler("pass", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return map[string]interface{}{"pass": true}, nil
	})

	e.RegisterHandler("fail", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return nil, errors.New("intentional failure")
	})

	scenarios := []*loader.Scenario{
		{ID: "SC-PASS-1", Name: "Pass 1", Steps: []loader.Step{{Action: "pass", Expect: map[string]interface{}{"pass": true}}}},
		{ID: "SC-PASS-2", Name: "Pass 2", Steps: []loader.Step{{Action: "pass", Expect: map[string]interface{}{"pass": true}}}},
		{ID: "SC-FAIL", Name: "Fail", Steps: []loader.Step{{Action: "fail"}}},
		{ID: "SC-SKIP", Name: "Skip", Skip: true, Steps: []loader.Step{{Action: "pass"}}},
	}

	result := e.RunSuite(context.Background(), scenarios)

	if result.PassCount != 2 {
		t.Errorf("Expected 2 passed, got %d", result.PassCount)
	}
	if result.FailCount != 1 {
		t.Errorf("Expected 1 failed, got %d", result.FailCount)
	}
	if result.SkipCount != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.SkipCount)
	}
	if len(result.Results) != 4 {
		t.Errorf("Expected 4 results, got %d", len(result.Results))
	}
}

// TestEngineStopOnFirstFailure tests stop-on-failure mode.
func TestEngineStopOnFirstFailure(t *testing.T) {
	config := engine.DefaultConfig()
	config.StopOnFirstFailure = true

	e := engine.NewWithConfig(config)

	executed := make(map[string]bool)

	e.RegisterHandler("pass", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executed[step.Params["id"].(string)] = true
		return nil, nil
	})

	e.RegisterHandler("fail", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		executed[step.Params["id"].(string)] = true
		return nil, errors.New("fail")
	})

	scenarios := []*loader.Scenario{
		{ID: "SC-1", Steps: []loader.Step{{Action: "pass", Params: map[string]interface{}{"id": "1"}}}},
		{ID: "SC-2", Steps: []loader.Step{{Action: "fail", Params: map[string]interface{}{"id": "2"}}}},
		{ID: "SC-3", Steps: []loader.Step{{Action: "pass", Params: map[string]interface{}{"id": "3"}}}},
	}

	result := e.RunSuite(context.Background(), scenarios)

	if executed["3"] {
		t.Error("SC-3 should not have executed after SC-2 failed")
	}
	if result.FailCount != 1 {
		t.Errorf("Expected 1 failure, got %d", result.FailCount)
	}
	if len(result.Results) != 2 {
		t.Errorf("Expected 2 results (stopped after failure), got %d", len(result.Results))
	}
}

// TestEngineOnScenarioComplete tests the progress callback.
func TestEngineOnScenarioComplete(t *testing.T) {
	var completed []string

	config := engine.DefaultConfig()
	config.OnScenarioComplete = func(r *engine.ScenarioResult) {
		completed = append(completed, r.Scenario.ID)
	}

	e := engine.NewWithConfig(config)

	e.RegisterHandler("pass", func(ctx context.Context, step *loader.Step, state *engine.State) (map[string]interface{}, error) {
		return nil, nil
	})

	scenarios := []*loader.Scenario{
		{ID: "SC-A", Steps: []loader.Step{{Action: "pass"}}},
		{ID: "SC-B", Steps: []loader.Step{{Action: "pass"}}},
	}

	e.RunSuite(context.Background(), scenarios)

	if len(completed) != 2 || completed[0] != "SC-A" || completed[1] != "SC-B" {
		t.Errorf("OnScenarioComplete saw %v, want [SC-A SC-B]", completed)
	}
}

// TestEngineUnknownAction tests handling of unknown actions.
func TestEngineUnknownAction(t *testing.T) {
	e := engine.New()

	sc := &loader.Scenario{
		ID:    "SC-UNKNOWN",
		Name:  "Unknown Action Scenario",
		Steps: []loader.Step{{Action: "nonexistent_action"}},
	}

	result := e.Run(context.Background(), sc)

	if result.Passed {
		t.Error("Scenario should fail for unknown action")
	}
	if result.Error == nil {
		t.Error("Error should be set")
	}
}
