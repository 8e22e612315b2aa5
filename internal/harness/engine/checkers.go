package engine

import (
	"fmt"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// checkRecordCount asserts on the number of records the host captured
// so far during the scenario.
func checkRecordCount(key string, expected interface{}, state *State) *ExpectResult {
	want, err := asInt(expected)
	if err != nil {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  err.Error(),
		}
	}

	got := state.Records.Len()
	result := &ExpectResult{
		Key:      key,
		Expected: want,
		Actual:   got,
		Passed:   got == want,
	}
	if result.Passed {
		result.Message = fmt.Sprintf("captured %d records", got)
	} else {
		result.Message = fmt.Sprintf("expected %d records, got %d", want, got)
	}
	return result
}

// checkRecords asserts on the captured records in order. Each expected
// item is either a plain string (matched against the message) or a map
// with message and level keys.
func checkRecords(key string, expected interface{}, state *State) *ExpectResult {
	items, ok := expected.([]interface{})
	if !ok {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  fmt.Sprintf("records expectation must be a list, got %T", expected),
		}
	}

	records := state.Records.Records()
	result := &ExpectResult{
		Key:      key,
		Expected: expected,
		Actual:   recordMessages(records),
	}

	if len(records) != len(items) {
		result.Message = fmt.Sprintf("expected %d records, got %d", len(items), len(records))
		return result
	}

	for i, item := range items {
		if msg := matchRecord(i, item, records[i]); msg != "" {
			result.Message = msg
			return result
		}
	}

	result.Passed = true
	result.Message = fmt.Sprintf("all %d records match", len(items))
	return result
}

// matchRecord compares one expected item against one captured record,
// returning a mismatch description or "" on match.
func matchRecord(index int, item interface{}, rec capture.Record) string {
	switch want := item.(type) {
	case string:
		if rec.Message != want {
			return fmt.Sprintf("record %d: expected message %q, got %q", index, want, rec.Message)
		}
	case map[string]interface{}:
		if msg, ok := want["message"]; ok {
			wantMsg := fmt.Sprintf("%v", msg)
			if rec.Message != wantMsg {
				return fmt.Sprintf("record %d: expected message %q, got %q", index, wantMsg, rec.Message)
			}
		}
		if lvRaw, ok := want["level"]; ok {
			wantLevel, err := level.Parse(fmt.Sprintf("%v", lvRaw))
			if err != nil {
				return fmt.Sprintf("record %d: %v", index, err)
			}
			if rec.Level != wantLevel {
				return fmt.Sprintf("record %d: expected level %s, got %s", index, wantLevel, rec.Level)
			}
		}
	default:
		return fmt.Sprintf("record %d: expectation must be a string or map, got %T", index, item)
	}
	return ""
}

func recordMessages(records []capture.Record) []string {
	msgs := make([]string, len(records))
	for i, rec := range records {
		msgs[i] = rec.Message
	}
	return msgs
}

// checkHalted asserts on the device's halt latch.
func checkHalted(key string, expected interface{}, state *State) *ExpectResult {
	return boolResult(key, expected, state.Device.Halted())
}

// checkEnabled asserts on whether the device accepted the handshake.
func checkEnabled(key string, expected interface{}, state *State) *ExpectResult {
	return boolResult(key, expected, state.Device.Enabled())
}

// checkFinished asserts on the guest completion cell.
func checkFinished(key string, expected interface{}, state *State) *ExpectResult {
	return boolResult(key, expected, state.Device.Finished())
}

// checkReady asserts on whether the guest logger holds a successful
// probe.
func checkReady(key string, expected interface{}, state *State) *ExpectResult {
	return boolResult(key, expected, state.Logger.Ready())
}

// checkPortWrites asserts on the number of buffer writes the port saw,
// which counts chunks including any the logger later abandoned.
func checkPortWrites(key string, expected interface{}, state *State) *ExpectResult {
	want, err := asInt(expected)
	if err != nil {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  err.Error(),
		}
	}

	got := state.Port.WriteCount()
	result := &ExpectResult{
		Key:      key,
		Expected: want,
		Actual:   got,
		Passed:   got == want,
	}
	if result.Passed {
		result.Message = fmt.Sprintf("port saw %d writes", got)
	} else {
		result.Message = fmt.Sprintf("expected %d port writes, got %d", want, got)
	}
	return result
}

func boolResult(key string, expected interface{}, got bool) *ExpectResult {
	want, err := asBool(expected)
	if err != nil {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  err.Error(),
		}
	}

	result := &ExpectResult{
		Key:      key,
		Expected: want,
		Actual:   got,
		Passed:   got == want,
	}
	if result.Passed {
		result.Message = fmt.Sprintf("%s = %v", key, got)
	} else {
		result.Message = fmt.Sprintf("expected %s = %v, got %v", key, want, got)
	}
	return result
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func asBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}
