package services

import "kickoff/internal/providers"

// noopReporter logs store paths that silently did nothing. In strict mode
// (debug config) they show up as warnings.
type noopReporter struct {
	logger providers.Logger
	strict bool
}

func (r noopReporter) report(format string, args ...interface{}) {
	if r.strict {
		r.logger.Warnf(providers.TypeStore, format, args...)
		return
	}
	r.logger.Debugf(providers.TypeStore, format, args...)
}
