package events

import (
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"

	"github.com/ThreeDotsLabs/watermill"
)

// wmLogger routes watermill's own logging into the service logger under
// the "events" module. Trace is folded into Debug.
type wmLogger struct {
	log    logger.ILogger
	fields watermill.LogFields
}

func newWatermillLogger(log logger.ILogger) watermill.LoggerAdapter {
	return &wmLogger{log: log, fields: watermill.LogFields{}}
}

func (l *wmLogger) details(fields watermill.LogFields) map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (l *wmLogger) Error(msg string, err error, fields watermill.LogFields) {
	d := l.details(fields)
	d["error"] = err
	l.log.Error("events", msg, d)
}

func (l *wmLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info("events", msg, l.details(fields))
}

func (l *wmLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug("events", msg, l.details(fields))
}

func (l *wmLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug("events", msg, l.details(fields))
}

func (l *wmLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &wmLogger{log: l.log, fields: l.details(fields)}
}
