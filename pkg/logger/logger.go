package logger

import (
	"os"

	"learngenix_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Log   = zap.NewNop()
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func InitLogger(cfg *config.Config) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	consoleWriter := zapcore.AddSync(os.Stdout)

	SetLevel(levelFor(cfg))

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			consoleWriter,
			level,
		),
	)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// SetLevel 运行时调整日志级别，配置热更新时调用
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

func Level() zapcore.Level {
	return level.Level()
}

// ApplyConfig 将重新加载的配置应用到日志级别
func ApplyConfig(cfg *config.Config) {
	l := levelFor(cfg)
	if l != Level() {
		Log.Info("log level changed", zap.String("level", l.String()))
		SetLevel(l)
	}
}

func levelFor(cfg *config.Config) zapcore.Level {
	if cfg.Server.Mode == "debug" && cfg.Log.Level == "" {
		return zap.DebugLevel
	}
	l, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zap.InfoLevel
	}
	return l
}
