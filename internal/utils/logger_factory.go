package utils

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	consoleMessageKeyConstant            = "message"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var zapLevelsByLogLevel = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// SupportedLogLevels lists the accepted log levels from most to least verbose.
func SupportedLogLevels() []string {
	return []string{string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError)}
}

// SupportedLogFormats lists the accepted log formats.
func SupportedLogFormats() []string {
	return []string{string(LogFormatStructured), string(LogFormatConsole)}
}

// LoggerOutputs groups the loggers produced for a single CLI invocation.
type LoggerOutputs struct {
	// DiagnosticLogger carries leveled diagnostics on the diagnostic sink (standard error by default).
	DiagnosticLogger *zap.Logger
	// ConsoleLogger prints bare operator-facing messages on the console sink (standard output by default).
	ConsoleLogger *zap.Logger
}

// LoggerFactory builds the diagnostic and console loggers for an invocation.
type LoggerFactory struct {
	diagnosticSink zapcore.WriteSyncer
	consoleSink    zapcore.WriteSyncer
}

// NewLoggerFactory constructs a factory writing diagnostics to standard error and console messages to standard output.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{
		diagnosticSink: zapcore.Lock(os.Stderr),
		consoleSink:    zapcore.Lock(os.Stdout),
	}
}

// NewLoggerFactoryWithWriters constructs a factory writing to the provided destinations.
func NewLoggerFactoryWithWriters(diagnosticWriter io.Writer, consoleWriter io.Writer) *LoggerFactory {
	return &LoggerFactory{
		diagnosticSink: zapcore.Lock(zapcore.AddSync(diagnosticWriter)),
		consoleSink:    zapcore.Lock(zapcore.AddSync(consoleWriter)),
	}
}

// CreateLoggerOutputs produces the diagnostic logger honoring the level and format, plus a message-only console logger.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	zapLevel, levelSupported := zapLevelsByLogLevel[requestedLogLevel]
	if !levelSupported {
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	var diagnosticEncoder zapcore.Encoder
	switch requestedLogFormat {
	case LogFormatStructured:
		diagnosticEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case LogFormatConsole:
		diagnosticEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	diagnosticCore := zapcore.NewCore(diagnosticEncoder, factory.diagnosticSink, zap.NewAtomicLevelAt(zapLevel))
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: consoleMessageKeyConstant, LineEnding: zapcore.DefaultLineEnding}),
		factory.consoleSink,
		zapcore.DebugLevel,
	)

	return LoggerOutputs{
		DiagnosticLogger: zap.New(diagnosticCore, zap.AddCaller(), zap.ErrorOutput(factory.diagnosticSink)),
		ConsoleLogger:    zap.New(consoleCore),
	}, nil
}
