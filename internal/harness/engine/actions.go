package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gbadbg/gbadbg-go/internal/harness/loader"
	"github.com/gbadbg/gbadbg-go/pkg/debuglog"
	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/status"
)

// registerBuiltins wires the builtin action handlers and checkers into
// a freshly created engine.
func registerBuiltins(e *Engine) {
	e.RegisterHandler(ActionInit, handleInit)
	e.RegisterHandler(ActionEmit, handleEmit)
	e.RegisterHandler(ActionFatal, handleFatal)
	e.RegisterHandler(ActionInterrupt, handleInterrupt)
	e.RegisterHandler(ActionStatusDone, handleStatusDone)
	e.RegisterHandler(ActionReset, handleReset)

	e.RegisterChecker(CheckerNameRecordCount, checkRecordCount)
	e.RegisterChecker(CheckerNameRecords, checkRecords)
	e.RegisterChecker(CheckerNameHalted, checkHalted)
	e.RegisterChecker(CheckerNameEnabled, checkEnabled)
	e.RegisterChecker(CheckerNameFinished, checkFinished)
	e.RegisterChecker(CheckerNameReady, checkReady)
	e.RegisterChecker(CheckerNamePortWrites, checkPortWrites)
}

// handleInit probes for the host. A missing host is a legitimate
// scenario outcome, not a step failure: the probe result flows into
// the init_ok output for the scenario to assert on.
func handleInit(_ context.Context, _ *loader.Step, state *State) (map[string]interface{}, error) {
	err := state.Logger.Init()
	if err != nil && !errors.Is(err, debuglog.ErrNotSupported) {
		return nil, err
	}
	return map[string]interface{}{
		KeyInitOK: err == nil,
	}, nil
}

// handleEmit logs a message through the guest logger.
func handleEmit(_ context.Context, step *loader.Step, state *State) (map[string]interface{}, error) {
	msg, ok := paramString(step, "message")
	if !ok {
		return nil, fmt.Errorf("emit requires a message parameter")
	}

	lv, err := paramLevel(step, "level", level.Info)
	if err != nil {
		return nil, err
	}

	state.Logger.Log(lv, msg)
	return nil, nil
}

// handleFatal logs at the fatal level, which also requests host fatal
// handling.
func handleFatal(_ context.Context, step *loader.Step, state *State) (map[string]interface{}, error) {
	msg, ok := paramString(step, "message")
	if !ok {
		msg = "fatal error"
	}

	state.Logger.Log(level.Fatal, msg)
	return nil, nil
}

// handleInterrupt arms an interrupt hook on the port. The hook logs a
// message from interrupt context during the next matching port
// operation, exercising the logger's reentrancy guard.
func handleInterrupt(_ context.Context, step *loader.Step, state *State) (map[string]interface{}, error) {
	at, ok := paramString(step, "at")
	if !ok {
		at = string(PointWrite)
	}
	point := InterruptPoint(at)
	if !ValidPoint(point) {
		return nil, fmt.Errorf("invalid interrupt point: %s (must be write, trigger, or halt)", at)
	}

	lv, err := paramLevel(step, "level", level.Error)
	if err != nil {
		return nil, err
	}

	msg, ok := paramString(step, "message")
	if !ok {
		msg = "interrupt message"
	}

	logger := state.Logger
	state.Port.Arm(point, func() {
		logger.Log(lv, msg)
	})
	return nil, nil
}

// handleStatusDone marks the guest as finished through the run-state
// cell, the way a guest main loop signals completion.
func handleStatusDone(_ context.Context, _ *loader.Step, state *State) (map[string]interface{}, error) {
	status.NewSignal(state.Device.StatusCell()).Done()
	return nil, nil
}

// handleReset power-cycles the machine: the device starts a fresh
// session and the guest comes back up uninitialized, so the scenario
// must init again before emitting.
func handleReset(_ context.Context, _ *loader.Step, state *State) (map[string]interface{}, error) {
	state.Device.Reset()
	state.Logger = debuglog.New(state.Port)
	return nil, nil
}

// paramString extracts a string parameter from a step.
func paramString(step *loader.Step, key string) (string, bool) {
	v, ok := step.Params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v), true
	}
	return s, true
}

// paramLevel extracts a level parameter from a step, falling back to
// def when the parameter is absent.
func paramLevel(step *loader.Step, key string, def level.Level) (level.Level, error) {
	s, ok := paramString(step, key)
	if !ok {
		return def, nil
	}
	return level.Parse(s)
}
