package debuglog

import "errors"

// ErrNotSupported is returned by Init when no host acknowledges the
// enable handshake. The logger stays inert; Init may be retried.
var ErrNotSupported = errors.New("debuglog: debug interface not acknowledged by host")
