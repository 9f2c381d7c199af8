package main

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a JSON logger on stderr at the named level
func newLogger(level string) (*zap.Logger, error) {
	return newLoggerTo(os.Stderr, level)
}

func newLoggerTo(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core), nil
}

// flush syncs the logger, ignoring the error syncing a terminal returns
func flush(l *zap.Logger) error {
	if err := l.Sync(); err != nil {
		if strings.Contains(err.Error(), "inappropriate ioctl for device") ||
			strings.Contains(err.Error(), "invalid argument") {
			return nil
		}
		return err
	}
	return nil
}
