package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"discord-gban/internal/config"
)

// Level is a log severity, ordered from most to least verbose.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
	LevelFatal:   "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel maps a config level name to a Level. Unknown names yield INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

var threshold atomic.Int32

func init() {
	threshold.Store(int32(LevelInfo))
}

// SetLevel changes the minimum level that is written.
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	return int32(l) >= threshold.Load()
}

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// createMultiWriter creates a writer that outputs to both stdout and log file
func createMultiWriter(rotatingLogger io.Writer) io.Writer {
	return io.MultiWriter(os.Stdout, rotatingLogger)
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := createLogFilePath(logDir, "gban-bot")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)

	log.SetOutput(createMultiWriter(rotatingLogger))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	SetLevel(ParseLevel(cfg.Logger.Level))

	log.Printf("Logging initialized: writing to %s (level %s)", logFilePath, ParseLevel(cfg.Logger.Level))
	return nil
}

// GetRotatingLogWriter returns a rotating log writer for custom loggers
func GetRotatingLogWriter(cfg *config.Config, prefix string) io.Writer {
	logFilePath := createLogFilePath(cfg.Logger.Directory, prefix)
	return createMultiWriter(createRotatingLogger(logFilePath, cfg))
}

// output skips this file's frames so Lshortfile reports the caller.
func output(l Level, msg string) {
	if !Enabled(l) {
		return
	}
	_ = log.Output(3, "["+l.String()+"] "+msg)
}

func Debug(v ...interface{})   { output(LevelDebug, fmt.Sprint(v...)) }
func Info(v ...interface{})    { output(LevelInfo, fmt.Sprint(v...)) }
func Warning(v ...interface{}) { output(LevelWarning, fmt.Sprint(v...)) }
func Error(v ...interface{})   { output(LevelError, fmt.Sprint(v...)) }

func Debugf(format string, v ...interface{})   { output(LevelDebug, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...interface{})    { output(LevelInfo, fmt.Sprintf(format, v...)) }
func Warningf(format string, v ...interface{}) { output(LevelWarning, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...interface{})   { output(LevelError, fmt.Sprintf(format, v...)) }

// Fatalf logs at FATAL and exits.
func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}
