package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mini-maxit/judge/pkg/constants"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	callerKey = "caller"
	msgKey    = "msg"
	logFile   = "judge.log"
)

var (
	sugarLogger *zap.SugaredLogger
	initOnce    sync.Once
)

// logPath resolves LOG_DIR (relative to the working directory when not absolute).
func logPath() string {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = constants.DefaultLogDir
	}
	if !filepath.IsAbs(logDir) {
		if wd, err := os.Getwd(); err == nil {
			logDir = filepath.Join(wd, logDir)
		}
	}
	return filepath.Join(logDir, logFile)
}

func logLevel() zapcore.Level {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return zapcore.InfoLevel
		}
	}
	return level
}

func initializeLogger() {
	path := logPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		path = logFile
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	})

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		CallerKey:      callerKey,
		MessageKey:     msgKey,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := logLevel()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	)

	sugarLogger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Sugar()
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	initOnce.Do(initializeLogger)
	return sugarLogger.Named(name)
}

// Sync flushes buffered entries; called once on shutdown.
func Sync() {
	if sugarLogger != nil {
		_ = sugarLogger.Sync()
	}
}
