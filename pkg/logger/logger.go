// Package logger provides the shared zap logger for the service.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

// Init builds the global logger. An empty logFile selects the development
// console encoder; otherwise production JSON is written to the file and stdout.
func Init(level string, logFile string) error {
	var config zap.Config

	if logFile != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{logFile, "stdout"}
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	Log, err = config.Build()
	if err != nil {
		return err
	}

	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}
