package logger

import (
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger global logger
	Logger *zap.Logger
	// SugaredLogger global sugared logger
	SugaredLogger *zap.SugaredLogger
	loggerOnce    sync.Once
	atomicLevel   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the global logger from the loaded config
func Init() error {
	cfg := config.GetConfig().Log
	loggerOnce.Do(func() {
		InitLogger(&cfg)
		config.OnChange(func(c *config.Config) {
			SetLevel(c.Log.Level)
		})
	})
	return nil
}

// Sync flushes buffered entries
func Sync() error {
	if Logger == nil {
		return nil
	}
	return Logger.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch s {
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

// SetLevel changes the level at runtime
func SetLevel(level string) {
	atomicLevel.SetLevel(parseLevel(level))
}

// InitLogger builds the JSON logger with optional file rotation
func InitLogger(cfg *config.LogConfig) {
	atomicLevel.SetLevel(parseLevel(cfg.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var writeSyncer zapcore.WriteSyncer
	if cfg.Filename != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
		if cfg.Stdout {
			writeSyncer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(rotator), zapcore.AddSync(os.Stdout))
		} else {
			writeSyncer = zapcore.AddSync(rotator)
		}
	} else {
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writeSyncer, atomicLevel)

	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SugaredLogger = Logger.Sugar()
}

// GetLogger returns the global logger, or a no-op one before Init
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// GetSugaredLogger returns the global sugared logger, or a no-op one before Init
func GetSugaredLogger() *zap.SugaredLogger {
	if SugaredLogger == nil {
		return zap.NewNop().Sugar()
	}
	return SugaredLogger
}

// GinLogger request logging middleware
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		GetLogger().Info("http request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("cost", time.Since(start)),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}

// GinRecovery recovers panics and logs them
func GinRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		GetLogger().Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatusJSON(500, gin.H{"code": 500, "message": "internal server error"})
	})
}

// Info info log
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Warn warn log
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error error log
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Infof formatted info log
func Infof(format string, args ...interface{}) {
	GetSugaredLogger().Infof(format, args...)
}

// Warnf formatted warn log
func Warnf(format string, args ...interface{}) {
	GetSugaredLogger().Warnf(format, args...)
}

// Errorf formatted error log
func Errorf(format string, args ...interface{}) {
	GetSugaredLogger().Errorf(format, args...)
}
