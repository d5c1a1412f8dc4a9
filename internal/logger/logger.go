package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"lingoboard/internal/config"
)

var logger = zap.NewNop().Sugar()

// Init replaces the no-op logger with one writing to a rotating file and,
// optionally, stdout.
func Init(cfg config.LogConfig, develop bool) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	opts := make([]zap.Option, 0, 2)
	if develop {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	core := zapcore.NewCore(getEncoder(encoderConfig), getWriter(cfg), level)
	logger = zap.New(core, opts...).Sugar()

	Infof("Initializing logger successfully, level=%s", level)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = logger.Sync()
}

func Debugf(template string, args ...any) {
	logger.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	logger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	logger.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	logger.Errorf(template, args...)
}

// ErrorWithStack logs the root cause and the stack recorded by pkg/errors.
func ErrorWithStack(err error) {
	logger.Errorf("%T:\nstack trace:\n%+v", errors.Cause(err), err)
}

func getEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(config)
}

func getWriter(cfg config.LogConfig) zapcore.WriteSyncer {
	out := make([]zapcore.WriteSyncer, 0, 2)
	if cfg.Path != "" {
		out = append(out, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}))
	}
	if cfg.Console || len(out) == 0 {
		out = append(out, zapcore.Lock(os.Stdout))
	}
	return zapcore.NewMultiWriteSyncer(out...)
}
