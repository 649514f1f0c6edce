package logger

import (
	"bufio"
	"bytes"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	zlog  = zap.NewNop()
	zLock sync.RWMutex

	wrt    *bufio.Writer
	buffer bytes.Buffer
)

// Setup builds the process logger. Debug mode uses a coloured development
// config, otherwise JSON lines go to stdout and errors to stderr.
func Setup(debug bool) (err error) {
	var l *zap.Logger
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		cfg.DisableCaller = true
		l, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableCaller = true
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	zLock.Lock()
	zlog = l
	zLock.Unlock()
	return nil
}

// L returns the process logger. Before Setup it is a no-op logger.
func L() *zap.Logger {
	zLock.RLock()
	defer zLock.RUnlock()
	return zlog
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// EnableTestingMode routes everything at debug level and above into an
// in-memory buffer read by CaptureOutput.
func EnableTestingMode() {
	zLock.Lock()
	defer zLock.Unlock()
	buffer.Reset()
	wrt = bufio.NewWriter(&buffer)
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	zlog = zap.New(zapcore.NewCore(enc, zapcore.AddSync(wrt), zapcore.DebugLevel))
}

// CaptureOutput runs fn and returns what was logged meanwhile. It requires
// EnableTestingMode.
func CaptureOutput(fn func()) string {
	zLock.Lock()
	buffer.Reset()
	zLock.Unlock()
	fn()
	zLock.Lock()
	defer zLock.Unlock()
	wrt.Flush()
	return buffer.String()
}
