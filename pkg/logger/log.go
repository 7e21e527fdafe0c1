package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"service-order/pkg/config"
)

// NewLogger пишет одновременно в stdout и в файл с ротацией.
func NewLogger(cfg config.LogConfig) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	if cfg.Level != "" {
		if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
			level.SetLevel(parsed)
		}
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.FilePath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    5, // megabytes
			MaxBackups: 5,
			MaxAge:     60, // days
		})
		cores = append(cores, zapcore.NewCore(encoder, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}

// Loggers - именованные логгеры по областям, как в роутере.
type Loggers struct {
	Main       *zap.Logger
	Transition *zap.Logger
	Hooks      *zap.Logger
	History    *zap.Logger
}

func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:       base.Named("main"),
		Transition: base.Named("transition"),
		Hooks:      base.Named("hooks"),
		History:    base.Named("history"),
	}
}
