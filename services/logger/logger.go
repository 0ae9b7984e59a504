// Package logsvc implements core.Logger over zap, mirroring to Rollbar outside debug mode.
package logsvc

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
)

type Logger struct {
	zap     *zap.Logger
	rollbar bool
}

var _ core.Logger = (*Logger)(nil)

// NewLogger builds a console logger named after the app (e.g. "API", "CLI") writing to stderr.
func NewLogger(name string, conf *core.Config) (*Logger, error) {
	zconf := zap.NewProductionConfig()
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	}
	zconf.Encoding = "console"
	zconf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zconf.OutputPaths = []string{"stderr"}
	zconf.ErrorOutputPaths = []string{"stderr"}
	zconf.DisableStacktrace = !conf.Debug

	zl, err := zconf.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return New(zl.Named(name), conf), nil
}

// New wraps zl. Rollbar is enabled when a token is configured and debug mode is off.
func New(zl *zap.Logger, conf *core.Config) *Logger {
	host, _ := os.Hostname()
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rollbarerrors.StackTracer)

	enabled := conf.RollbarToken != "" && !conf.Debug
	rollbar.SetEnabled(enabled)
	return &Logger{zap: zl, rollbar: enabled}
}

func (l *Logger) Sync() error {
	rollbar.Wait()
	return l.zap.Sync()
}

// expected args: error, map[string]interface{}, session.User
func (l *Logger) prepare(msg string, args []interface{}) ([]zap.Field, []interface{}) {
	var usrSet bool
	fields := make([]zap.Field, 0, len(args))
	rbArgs := make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)

	for _, arg := range args {
		switch v := arg.(type) {
		case session.User:
			fields = append(fields, zap.String("user", v.Username))
			// only set one User
			if !usrSet && l.rollbar {
				rollbar.SetPerson(v.Username, v.Username, "")
				usrSet = true
			}
			continue
		case error:
			fields = append(fields, zap.Error(v))
		case map[string]interface{}:
			for key, val := range v {
				fields = append(fields, zap.Any(key, val))
			}
		default:
			fields = append(fields, zap.Any("arg", v))
		}
		rbArgs = append(rbArgs, arg)
	}
	if !usrSet && l.rollbar {
		rollbar.ClearPerson()
	}
	return fields, rbArgs
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	fields, _ := l.prepare(msg, args)
	l.zap.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Info(msg, fields...)
	if l.rollbar {
		rollbar.Info(rbArgs...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Warn(msg, fields...)
	if l.rollbar {
		rollbar.Warning(rbArgs...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	l.zap.Error(msg, fields...)
	if l.rollbar {
		rollbar.Error(rbArgs...)
	}
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	fields, rbArgs := l.prepare(msg, args)
	if l.rollbar {
		rollbar.Critical(rbArgs...)
		rollbar.Wait()
	}
	l.zap.Fatal(msg, fields...)
}
