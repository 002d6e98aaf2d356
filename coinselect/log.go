package coinselect

import "github.com/btcsuite/btclog"

// log is the package-level logger, disabled by default. Callers that want
// diagnostic output wire in a concrete logger via UseLogger, the same
// pattern the teacher wallet and its underlying node use throughout.
var log = btclog.Disabled

// UseLogger sets the package-wide logger used by coinselect.
func UseLogger(logger btclog.Logger) {
	log = logger
}
