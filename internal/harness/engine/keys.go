package engine

// Action names -- the string values that appear in scenario YAML and
// are used as map keys in Engine.handlers.
const (
	ActionInit       = "init"
	ActionEmit       = "emit"
	ActionFatal      = "fatal"
	ActionInterrupt  = "interrupt"
	ActionStatusDone = "status_done"
	ActionReset      = "reset"
)

// Checker registration names -- the expectation keys that appear in
// scenario YAML and are used as map keys in Engine.checkers.
const (
	CheckerNameDefault     = "default"
	CheckerNameRecordCount = "record_count"
	CheckerNameRecords     = "records"
	CheckerNameHalted      = "halted"
	CheckerNameEnabled     = "enabled"
	CheckerNameFinished    = "finished"
	CheckerNameReady       = "ready"
	CheckerNamePortWrites  = "port_writes"
)

// Output keys set by action handlers and read through the default
// checker.
const (
	// KeyInitOK records whether the init action's probe succeeded.
	KeyInitOK = "init_ok"
)
