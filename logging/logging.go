// Package logging provides structured logging for the dashboard
package logging

import (
	"go.uber.org/zap"
)

// Logger wraps zap.Logger with dashboard-specific events
type Logger struct {
	*zap.Logger
	fields map[string]interface{}
}

// Config holds logging configuration
type Config struct {
	Level       string            `yaml:"level" json:"level"`
	Format      string            `yaml:"format" json:"format"` // "json" or "console"
	OutputPath  string            `yaml:"output_path" json:"output_path"`
	Fields      map[string]string `yaml:"fields" json:"fields"`
	Development bool              `yaml:"development" json:"development"`
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	l := &Logger{Logger: logger, fields: map[string]interface{}{}}
	if len(config.Fields) > 0 {
		fields := make(map[string]interface{}, len(config.Fields))
		for k, v := range config.Fields {
			fields[k] = v
		}
		l = l.WithFields(fields)
	}
	return l, nil
}

// NewDefaultLogger creates a logger with sensible defaults
func NewDefaultLogger() *Logger {
	config := Config{
		Level:  "info",
		Format: "json",
		Fields: map[string]string{
			"service": "palstats",
		},
	}

	logger, err := NewLogger(config)
	if err != nil {
		zapLogger, _ := zap.NewProduction()
		return &Logger{
			Logger: zapLogger,
			fields: map[string]interface{}{"service": "palstats"},
		}
	}

	return logger
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), fields: map[string]interface{}{}}
}

// Wrap adapts an existing zap logger.
func Wrap(z *zap.Logger) *Logger {
	return &Logger{Logger: z, fields: map[string]interface{}{}}
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	newFields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		newFields[k] = v
	}
	newFields[key] = value

	return &Logger{
		Logger: l.Logger.With(zap.Any(key, value)),
		fields: newFields,
	}
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return &Logger{
		Logger: l.Logger.With(zapFields...),
		fields: newFields,
	}
}

// Fields returns a copy of the context fields.
func (l *Logger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

// LogViewEvent logs a view render event
func (l *Logger) LogViewEvent(view string, event string, fields map[string]interface{}) {
	allFields := map[string]interface{}{
		"view":  view,
		"event": event,
	}
	for k, v := range fields {
		allFields[k] = v
	}

	l.WithFields(allFields).Info("View event")
}

// LogPerformanceMetric logs performance-related metrics
func (l *Logger) LogPerformanceMetric(metric string, value interface{}, unit string) {
	l.WithFields(map[string]interface{}{
		"metric": metric,
		"value":  value,
		"unit":   unit,
		"type":   "performance",
	}).Info("Performance metric")
}

// LogDataQualityEvent logs data quality issues
func (l *Logger) LogDataQualityEvent(entity string, issue string, severity string) {
	l.WithFields(map[string]interface{}{
		"entity":   entity,
		"issue":    issue,
		"severity": severity,
		"type":     "data_quality",
	}).Warn("Data quality issue")
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
