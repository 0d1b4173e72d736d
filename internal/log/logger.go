package log

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap logger with context hooks.
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel

	mu    sync.RWMutex
	hooks []Hook
}

var global atomic.Pointer[Logger]

//nolint:gochecknoinits // default logger before config is loaded.
func init() {
	global.Store(New(Config{Name: "arenax", Level: "info", Encoding: EncodingJSON}))
}

// New builds a logger from cfg.
func New(cfg Config) *Logger {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level, cfg.Debug))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == EncodingConsole {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, newWriteSyncer(cfg), level)

	return newWithCore(core, level, cfg)
}

func newWithCore(core zapcore.Core, level zap.AtomicLevel, cfg Config) *Logger {
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(2)}
	if cfg.Debug {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zl := zap.New(core, opts...)
	if cfg.Name != "" {
		zl = zl.Named(cfg.Name)
	}

	return &Logger{zl: zl, level: level}
}

func newWriteSyncer(cfg Config) zapcore.WriteSyncer {
	if cfg.Output == OutputFile && cfg.File.Path != "" {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    defaultIfZero(cfg.File.MaxSize, 100),
			MaxAge:     defaultIfZero(cfg.File.MaxAge, 7),
			MaxBackups: defaultIfZero(cfg.File.MaxBackups, 5),
			LocalTime:  cfg.File.LocalTime,
			Compress:   cfg.File.Compress,
		})
	}

	return zapcore.Lock(os.Stdout)
}

func defaultIfZero(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}

func parseLevel(s string, debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetGlobalConfig replaces the global logger. Hooks registered on the previous
// logger are carried over.
func SetGlobalConfig(cfg Config) {
	next := New(cfg)

	prev := global.Load()
	if prev != nil {
		prev.mu.RLock()
		next.hooks = append(next.hooks, prev.hooks...)
		prev.mu.RUnlock()
	}

	global.Store(next)
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *Logger {
	return global.Load()
}

// AddHook appends a hook applied to every entry.
func (l *Logger) AddHook(h Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hooks = append(l.hooks, h)
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.level.Enabled(level)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields []Field) {
	ce := l.zl.Check(level, msg)
	if ce == nil {
		return
	}

	l.mu.RLock()
	hooks := l.hooks
	l.mu.RUnlock()

	for _, h := range hooks {
		fields = h.Apply(ctx, msg, fields...)
	}

	ce.Write(fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	global.Load().log(ctx, zapcore.DebugLevel, msg, fields)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	global.Load().log(ctx, zapcore.InfoLevel, msg, fields)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	global.Load().log(ctx, zapcore.WarnLevel, msg, fields)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	global.Load().log(ctx, zapcore.ErrorLevel, msg, fields)
}

// DebugEnabled reports whether debug entries would be written.
// Use it to guard building expensive fields.
func DebugEnabled(_ context.Context) bool {
	return global.Load().Enabled(zapcore.DebugLevel)
}
