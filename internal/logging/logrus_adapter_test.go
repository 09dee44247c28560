package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "upper-case level and format", level: "WARN", format: "JSON", expectLevel: logrus.WarnLevel, expectJSON: true},
		{name: "error text", level: "error", format: "", expectLevel: logrus.ErrorLevel},
		{name: "invalid level defaults to info", level: "chatty", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.Logrus().Level)

			if tt.expectJSON {
				_, ok := adapter.Logrus().Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.Logrus().Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestSetAllLogLevels_AppliesToDefaultLevel(t *testing.T) {
	previous := logrus.GetLevel()
	t.Cleanup(func() { SetAllLogLevels(previous) })

	SetAllLogLevels(logrus.DebugLevel)
	adapter := NewLogrusAdapter("", "text").(*LogrusAdapter)

	assert.Equal(t, logrus.DebugLevel, adapter.Logrus().Level)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestParseLevel(t *testing.T) {
	level, ok := ParseLevel(" Debug ")
	assert.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, level)

	level, ok = ParseLevel("nope")
	assert.False(t, ok)
	assert.Equal(t, logrus.InfoLevel, level)
}

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
	}{
		{name: "debug", logFunc: func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, message: "discovered paths"},
		{name: "info", logFunc: func(l Logger, m string, f ...Field) { l.Info(m, f...) }, message: "conversion finished"},
		{name: "warn", logFunc: func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, message: "attributes dropped"},
		{name: "error", logFunc: func(l Logger, m string, f ...Field) { l.Error(m, f...) }, message: "parse failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedAdapter(logrus.DebugLevel)
			tt.logFunc(logger, tt.message, F(FieldSourceFormat, "xml"))

			output := buf.String()
			assert.Contains(t, output, tt.message)
			assert.Contains(t, output, "source_format=xml")
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.
		WithField(FieldInputFile, "in.csv").
		WithFields(F(FieldRules, 3), F(FieldTargetFormat, "json")).
		WithError(errors.New("boom")).
		Error("conversion failed")

	output := buf.String()
	assert.Contains(t, output, "conversion failed")
	assert.Contains(t, output, "input_file=in.csv")
	assert.Contains(t, output, "rules=3")
	assert.Contains(t, output, "target_format=json")
	assert.Contains(t, output, "boom")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.Logrus())
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{F("a", "x"), F("b", 42), F("c", true)})

	assert.Len(t, logrusFields, 3)
	assert.Equal(t, "x", logrusFields["a"])
	assert.Equal(t, 42, logrusFields["b"])
	assert.Equal(t, true, logrusFields["c"])
	assert.Len(t, convertFields(nil), 0)
}

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	mock.WithField(FieldFormat, "csv").Info("parsed")
	mock.WithError(errors.New("bad")).Warn("skipped")
	mock.Debug("plain")

	require.Len(t, mock.GetEntries(), 3)
	assert.True(t, mock.HasEntry("INFO", "parsed"))
	assert.False(t, mock.HasEntry("INFO", "skipped"))

	info := mock.GetEntriesByLevel("INFO")[0]
	value, ok := info.FieldValue(FieldFormat)
	require.True(t, ok)
	assert.Equal(t, "csv", value)

	warn := mock.GetEntriesByLevel("WARN")[0]
	assert.EqualError(t, warn.Error, "bad")

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Fatalf("failed after %d files", 2)
	assert.True(t, mock.HasEntry("FATAL", "failed after 2 files"))
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
