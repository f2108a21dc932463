package api

import (
	"fmt"
	"kickoff/internal/providers"
	"strings"
)

// leveledLogger routes retryablehttp logs into providers.Logger.
type leveledLogger struct {
	logger providers.Logger
}

func formatKV(msg string, keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorf(providers.TypeApi, "%s", formatKV(msg, keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnf(providers.TypeApi, "%s", formatKV(msg, keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infof(providers.TypeApi, "%s", formatKV(msg, keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf(providers.TypeApi, "%s", formatKV(msg, keysAndValues))
}
