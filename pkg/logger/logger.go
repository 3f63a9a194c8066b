package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志实例，Init 之前为 Nop，便于测试中直接使用
var Logger = zap.NewNop()

// Options 日志初始化参数
type Options struct {
	Service  string // 写入每条日志的 service 字段，区分 api 与 worker
	Level    string // debug / info / warn / error
	Format   string // json / console
	Output   string // stdout / file / both
	FilePath string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init 初始化日志系统
func Init(opts Options) error {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	if opts.Format == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sinks, err := writers(opts)
	if err != nil {
		return err
	}

	l := zap.New(zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level),
		zap.AddCaller(), zap.AddCallerSkip(1))
	if opts.Service != "" {
		l = l.With(zap.String("service", opts.Service))
	}
	Logger = l
	return nil
}

func writers(opts Options) ([]zapcore.WriteSyncer, error) {
	var sinks []zapcore.WriteSyncer
	if opts.Output != "file" {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}
	if opts.Output == "file" || opts.Output == "both" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 7),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}))
	}
	return sinks, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Sync 刷新日志缓冲区
func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// Fatal 记录后退出进程
func Fatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }

// With 创建带有字段的子Logger
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}
