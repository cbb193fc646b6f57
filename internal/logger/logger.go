package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wfunc/battle-slot/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	level  = zap.NewAtomicLevel()
	once   sync.Once
	mu     sync.RWMutex

	// 模块日志器
	moduleLoggers = make(map[string]*zap.Logger)
)

// Init 初始化日志系统
func Init(cfg *config.LogConfig) error {
	var err error
	once.Do(func() {
		var l *zap.Logger
		var modules map[string]*zap.Logger
		l, modules, err = build(cfg)
		if err != nil {
			return
		}

		mu.Lock()
		logger = l
		sugar = l.Sugar()
		moduleLoggers = modules
		mu.Unlock()
	})

	return err
}

func build(cfg *config.LogConfig) (*zap.Logger, map[string]*zap.Logger, error) {
	level.SetLevel(parseLevel(cfg.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 根据格式选择编码器
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var (
		cores   []zapcore.Core
		writers []zapcore.WriteSyncer
	)

	if cfg.Output == "stdout" || cfg.Output == "both" || cfg.Output == "" {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	var errorWriter zapcore.WriteSyncer
	if cfg.Output == "file" || cfg.Output == "both" {
		logDir := cfg.File.Path
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("创建日志目录失败: %w", err)
		}

		// 文件写入器（支持日志轮转）
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, cfg.File.Filename),
			MaxSize:    cfg.File.MaxSize,    // MB
			MaxAge:     cfg.File.MaxAge,     // days
			MaxBackups: cfg.File.MaxBackups, // 保留文件数
			Compress:   cfg.File.Compress,
		}))

		errorWriter = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, "error.log"),
			MaxSize:    cfg.File.MaxSize,
			MaxAge:     cfg.File.MaxAge,
			MaxBackups: cfg.File.MaxBackups,
			Compress:   cfg.File.Compress,
		})
	}

	out := zapcore.NewMultiWriteSyncer(writers...)
	cores = append(cores, zapcore.NewCore(encoder, out, level))
	if errorWriter != nil {
		cores = append(cores, zapcore.NewCore(encoder, errorWriter, zapcore.ErrorLevel))
	}

	l := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	// 模块日志器使用独立级别
	modules := make(map[string]*zap.Logger, len(cfg.Modules))
	for module, levelStr := range cfg.Modules {
		modules[module] = zap.New(
			zapcore.NewCore(encoder, out, parseLevel(levelStr)),
			zap.AddCaller(),
		).With(zap.String("module", module))
	}

	return l, modules, nil
}

// parseLevel 解析日志级别
func parseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger 获取日志器
func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		// 未初始化时使用默认配置
		defaultLogger, _ := zap.NewProduction()
		return defaultLogger
	}
	return logger
}

// GetSugar 获取Sugar日志器
func GetSugar() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s == nil {
		return GetLogger().Sugar()
	}
	return s
}

// GetModuleLogger 获取模块日志器
func GetModuleLogger(module string) *zap.Logger {
	mu.RLock()
	moduleLogger, ok := moduleLoggers[module]
	mu.RUnlock()

	if ok {
		return moduleLogger
	}
	return GetLogger().With(zap.String("module", module))
}

// ReplaceForTest 替换全局日志器（测试用），返回恢复函数
func ReplaceForTest(l *zap.Logger) func() {
	mu.Lock()
	prevLogger, prevSugar, prevModules := logger, sugar, moduleLoggers
	logger, sugar, moduleLoggers = l, l.Sugar(), make(map[string]*zap.Logger)
	mu.Unlock()

	return func() {
		mu.Lock()
		logger, sugar, moduleLoggers = prevLogger, prevSugar, prevModules
		mu.Unlock()
	}
}

// Sync 同步日志缓冲区
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()

	if logger != nil {
		return logger.Sync()
	}
	return nil
}

// 便捷方法

// Debug 输出调试日志
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Info 输出信息日志
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Warn 输出警告日志
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error 输出错误日志
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal 输出致命错误日志并退出程序
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// Infof 格式化输出信息日志
func Infof(template string, args ...interface{}) {
	GetSugar().Infof(template, args...)
}

// Warnf 格式化输出警告日志
func Warnf(template string, args ...interface{}) {
	GetSugar().Warnf(template, args...)
}

// Errorf 格式化输出错误日志
func Errorf(template string, args ...interface{}) {
	GetSugar().Errorf(template, args...)
}

// With 创建带有字段的日志器
func With(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

// WithModule 创建带有模块名的日志器
func WithModule(module string) *zap.Logger {
	return GetModuleLogger(module)
}

// LogRequest 记录请求日志
func LogRequest(method, path string, statusCode int, latency time.Duration, clientIP string) {
	GetModuleLogger("http").Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", statusCode),
		zap.Duration("latency", latency),
		zap.String("client_ip", clientIP),
	)
}

// LogError 记录错误日志（带堆栈）
func LogError(err error, msg string, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	GetLogger().Error(msg, fields...)
}

// LogPanic 记录panic日志
func LogPanic(recovered interface{}, stack []byte) {
	GetLogger().Error("panic recovered",
		zap.Any("panic", recovered),
		zap.ByteString("stack", stack),
	)
}

// LogGameEvent 记录游戏事件
func LogGameEvent(event string, roundID string, data map[string]interface{}) {
	GetModuleLogger("game").Info("game_event",
		zap.String("event", event),
		zap.String("round_id", roundID),
		zap.Any("data", data),
	)
}

// LogWebSocketMessage 记录WebSocket消息
func LogWebSocketMessage(direction string, messageType string, payload interface{}) {
	GetModuleLogger("websocket").Debug("ws_message",
		zap.String("direction", direction), // "send" or "receive"
		zap.String("type", messageType),
		zap.Any("payload", payload),
	)
}

// LogDatabaseOperation 记录数据库操作
func LogDatabaseOperation(operation string, table string, duration time.Duration, err error) {
	l := GetModuleLogger("database")
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("table", table),
		zap.Duration("duration", duration),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))
		l.Error("database_operation_failed", fields...)
	} else {
		l.Debug("database_operation", fields...)
	}
}

// SetLevel 动态设置日志级别（配置热更新时调用）
func SetLevel(levelStr string) {
	level.SetLevel(parseLevel(levelStr))
}

// Level 当前日志级别
func Level() string {
	return level.Level().String()
}

// Cleanup 清理日志资源
func Cleanup() {
	if err := Sync(); err != nil {
		fmt.Printf("Failed to sync logger: %v\n", err)
	}
}
