// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The relay writes lifecycle, submission, and error events to one JSON log
// per day under `<root>/logs/YYYY-MM-DD.log`.  When running in an
// interactive TTY we tee the same events to stdout.  Rotation, compression,
// and retention are handled by Lumberjack.
//
// Submission failures carry their underlying cause here and nowhere else.
// End users only ever see the generic copy from the FormSpec.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, runningInTTY())
//	if err != nil { … }
//	ctx = logger.WithContext(ctx, log.With("form", id))
//	logger.FromContext(ctx).Infow("form submitted")
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Oxford commas, two spaces after periods.
package logger

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger that writes JSON to /logs/YYYY-MM-DD.log.
// When tee == true, a console core is also attached.  The logger is
// installed as the process-wide default via zap.ReplaceGlobals.
func New(rootDir string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileName := time.Now().Format("2006-01-02") + ".log"
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := encoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), zap.InfoLevel),
	}
	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			zap.InfoLevel,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", tee, "dir", logDir)
	return z, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

/*──────────────────────────── context helpers ─────────────────────────────*/

type ctxKey struct{}

// WithContext stores l in ctx.  A nil logger leaves ctx untouched.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the global sugared
// logger when none was attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return zap.S()
}
