package log

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogEnvironment represents the possible log environments.
type LogEnvironment string

const (
	// EnvironmentProduction production log environment.
	EnvironmentProduction = LogEnvironment("production")
	// EnvironmentDevelopment development log environment.
	EnvironmentDevelopment = LogEnvironment("development")
)

// Logger is a wrapper providing logging facilities.
type Logger struct {
	x *zap.SugaredLogger
}

// root logger
var log atomic.Pointer[Logger]

// level is shared by every logger built by this package so it can be changed at runtime
var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func getDefaultLog() *Logger {
	l := log.Load()
	if l != nil {
		return l
	}
	// default level: debug
	zapLogger, err := NewLogger(Config{
		Environment: EnvironmentDevelopment,
		Level:       "debug",
		Outputs:     []string{"stderr"},
	})
	if err != nil {
		panic(err)
	}
	log.Store(&Logger{x: zapLogger})
	return log.Load()
}

// Init the logger with defined level. outputs defines the outputs where the
// logs will be sent. By default outputs contains "stdout", which prints the
// logs at the output of the process. To add a log file as output, the path
// should be added at the outputs array. To avoid printing the logs but storing
// them on a file, can use []string{"pathtofile.log"}
func Init(cfg Config) {
	zapLogger, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	log.Store(&Logger{x: zapLogger})
}

// NewLogger creates the logger with defined level. outputs defines the outputs where the
// logs will be sent. By default, outputs contains "stdout", which prints the
// logs at the output of the process. To add a log file as output, the path
// should be added at the outputs array.
func NewLogger(cfg Config) (*zap.SugaredLogger, error) {
	if err := SetLevel(cfg.Level); err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch cfg.Environment {
	case EnvironmentProduction:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	case EnvironmentDevelopment, "":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log environment %q", cfg.Environment)
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	syncers := make([]zapcore.WriteSyncer, 0, len(outputs))
	for _, output := range outputs {
		syncer, err := openSink(output, cfg.File)
		if err != nil {
			return nil, err
		}
		syncers = append(syncers, syncer)
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	return logger.Sugar(), nil
}

func openSink(output string, fileCfg FileConfig) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	if fileCfg.MaxSize > 0 {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   output,
			MaxSize:    fileCfg.MaxSize,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAge,
		}), nil
	}
	syncer, _, err := zap.Open(output)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %s: %w", output, err)
	}
	return syncer, nil
}

// SetLevel changes the level of every logger created by this package.
func SetLevel(lvl string) error {
	if lvl == "" {
		return nil
	}
	parsed, err := zapcore.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lvl, err)
	}
	level.SetLevel(parsed)
	return nil
}

// GetLevel returns the current log level.
func GetLevel() string {
	return level.Level().String()
}

// WithFields returns a new Logger (derived from the root one) with additional
// fields as per keyValuePairs.  The root Logger instance is not affected.
func WithFields(keyValuePairs ...interface{}) *Logger {
	l := getDefaultLog().WithFields(keyValuePairs...)

	// since we are returning a new instance, remove one caller from the
	// stack, because we'll be calling the returned Logger methods
	// directly, not the package functions.
	x := l.x.WithOptions(zap.AddCallerSkip(-1))
	l.x = x
	return l
}

// WithFields returns a new Logger with additional fields as per keyValuePairs.
func (l *Logger) WithFields(keyValuePairs ...interface{}) *Logger {
	return &Logger{x: l.x.With(keyValuePairs...)}
}

// Debug calls log.Debug
func (l *Logger) Debug(args ...interface{}) { l.x.Debug(args...) }

// Info calls log.Info
func (l *Logger) Info(args ...interface{}) { l.x.Info(args...) }

// Warn calls log.Warn
func (l *Logger) Warn(args ...interface{}) { l.x.Warn(args...) }

// Error calls log.Error
func (l *Logger) Error(args ...interface{}) { l.x.Error(args...) }

// Fatal calls log.Fatal
func (l *Logger) Fatal(args ...interface{}) { l.x.Fatal(args...) }

// Debugf calls log.Debugf
func (l *Logger) Debugf(template string, args ...interface{}) { l.x.Debugf(template, args...) }

// Infof calls log.Infof
func (l *Logger) Infof(template string, args ...interface{}) { l.x.Infof(template, args...) }

// Warnf calls log.Warnf
func (l *Logger) Warnf(template string, args ...interface{}) { l.x.Warnf(template, args...) }

// Errorf calls log.Errorf
func (l *Logger) Errorf(template string, args ...interface{}) { l.x.Errorf(template, args...) }

// Fatalf calls log.Fatalf
func (l *Logger) Fatalf(template string, args ...interface{}) { l.x.Fatalf(template, args...) }

// Debug calls log.Debug on the root Logger.
func Debug(args ...interface{}) {
	getDefaultLog().Debug(args...)
}

// Info calls log.Info on the root Logger.
func Info(args ...interface{}) {
	getDefaultLog().Info(args...)
}

// Warn calls log.Warn on the root Logger.
func Warn(args ...interface{}) {
	getDefaultLog().Warn(args...)
}

// Error calls log.Error on the root Logger.
func Error(args ...interface{}) {
	getDefaultLog().Error(args...)
}

// Fatal calls log.Fatal on the root Logger.
func Fatal(args ...interface{}) {
	getDefaultLog().Fatal(args...)
}

// Debugf calls log.Debugf on the root Logger.
func Debugf(template string, args ...interface{}) {
	getDefaultLog().Debugf(template, args...)
}

// Infof calls log.Infof on the root Logger.
func Infof(template string, args ...interface{}) {
	getDefaultLog().Infof(template, args...)
}

// Warnf calls log.Warnf on the root Logger.
func Warnf(template string, args ...interface{}) {
	getDefaultLog().Warnf(template, args...)
}

// Errorf calls log.Errorf on the root Logger.
func Errorf(template string, args ...interface{}) {
	getDefaultLog().Errorf(template, args...)
}

// Fatalf calls log.Fatalf on the root Logger.
func Fatalf(template string, args ...interface{}) {
	getDefaultLog().Fatalf(template, args...)
}
