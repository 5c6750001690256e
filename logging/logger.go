// Package logging builds the process-wide zap logger.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"winequality/config"
)

// New creates a logger for cfg. In file mode lines are appended to cfg.File,
// rotated by size; in print mode they go to stdout.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var out io.Writer = os.Stdout
	if cfg.Mode == config.LogModeFile {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}
	return NewWithWriter(cfg, out), nil
}

// NewWithWriter builds the logger on an arbitrary sink.
func NewWithWriter(cfg config.LogConfig, out io.Writer) *zap.Logger {
	level := zapcore.DebugLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.DebugLevel
		}
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(out),
		level,
	)
	return zap.New(core, zap.AddCaller())
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		CallerKey:        "caller",
		MessageKey:       "message",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.MillisDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ": ",
	}
}
