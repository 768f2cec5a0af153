// Package log wires the library's subsystems to one shared zap logger.
// Engine operations log under the "swpriv" subsystem with structured
// fields, so a verifier fleet can grep encodes, challenges and proofs
// by chunk count.
//
// Output is JSON on stderr. HEARTBEAT_LOG_FILE redirects it to a
// size-rotated file; HEARTBEAT_LOG_LEVEL sets the initial level.
package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root  = newRoot()
)

func newRoot() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.NameKey = "sub"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if path := os.Getenv("HEARTBEAT_LOG_FILE"); path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    64, // MB per file
			MaxBackups: 4,
			MaxAge:     28, // days
		})
	}

	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)).Sugar()
}

func init() {
	if s := os.Getenv("HEARTBEAT_LOG_LEVEL"); s != "" {
		// a bad value keeps the info default rather than aborting init
		_ = SetLogLevel(s)
	}
}

// Logger returns the logger for a named subsystem.
func Logger(name string) *zap.SugaredLogger {
	return root.Named(name)
}

// SetLogLevel adjusts the level shared by every subsystem.
func SetLogLevel(s string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return xerrors.Errorf("level %s is not supported", s)
	}
	level.SetLevel(lvl)
	return nil
}
