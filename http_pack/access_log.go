package http_pack

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewAccessLogger writes one JSON line per HTTP request into a rotating file. An empty path
// gives a no-op logger.
func NewAccessLogger(path string) *zap.Logger {

	if path == "" {
		return zap.NewNop()
	}

	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel))

}
