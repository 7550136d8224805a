package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the structured logger shared by the generator, the CLI and the
// dev server. It always writes to a side channel (stderr by default) so the
// generated declarations on stdout are never interleaved with log lines.
type Logger struct {
	zlog zerolog.Logger
}

// Config selects level, encoding and destination.
type Config struct {
	Level      string // debug, info, warn, error, silent
	Format     string // json, console, auto
	TimeFormat string // rfc3339, unix, unixms, unixmicro
	Output     io.Writer
}

// DefaultConfig logs info and above to stderr, pretty-printed when stderr
// is a terminal.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		TimeFormat: "rfc3339",
		Output:     os.Stderr,
	}
}

// timestampHook stamps each event in the logger's own time format. The
// zerolog.TimeFieldFormat global is left alone.
type timestampHook struct {
	format string
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	now := time.Now()
	switch h.format {
	case "unix":
		e.Int64(zerolog.TimestampFieldName, now.Unix())
	case "unixms":
		e.Int64(zerolog.TimestampFieldName, now.UnixMilli())
	case "unixmicro":
		e.Int64(zerolog.TimestampFieldName, now.UnixMicro())
	default:
		e.Str(zerolog.TimestampFieldName, now.Format(time.RFC3339))
	}
}

// New builds a logger from cfg. A nil cfg means DefaultConfig. Level and
// time format apply to this logger only, so loggers can run side by side.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	w := out
	if wantsConsole(cfg.Format, out) {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(out),
		}
	}

	zlog := zerolog.New(w).
		Level(levelOf(cfg.Level)).
		Hook(timestampHook{format: strings.ToLower(cfg.TimeFormat)})
	return &Logger{zlog: zlog}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// WithContext stores l in ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// FromContext returns the logger stored by WithContext, or a default one
// when ctx carries none.
func FromContext(ctx context.Context) *Logger {
	zlog := zerolog.Ctx(ctx)
	if zlog.GetLevel() == zerolog.Disabled {
		return New(nil)
	}
	return &Logger{zlog: *zlog}
}

// Fields accumulates key/value pairs for a child logger.
type Fields struct {
	ctx zerolog.Context
}

// With starts a child logger. Finish the chain with Logger.
func (l *Logger) With() *Fields {
	return &Fields{ctx: l.zlog.With()}
}

func (f *Fields) Str(key, val string) *Fields {
	f.ctx = f.ctx.Str(key, val)
	return f
}

func (f *Fields) Strs(key string, vals []string) *Fields {
	f.ctx = f.ctx.Strs(key, vals)
	return f
}

func (f *Fields) Int(key string, val int) *Fields {
	f.ctx = f.ctx.Int(key, val)
	return f
}

func (f *Fields) Err(err error) *Fields {
	f.ctx = f.ctx.Err(err)
	return f
}

func (f *Fields) Logger() *Logger {
	return &Logger{zlog: f.ctx.Logger()}
}

func (l *Logger) Debug(msg string)                  { l.zlog.Debug().Msg(msg) }
func (l *Logger) Debugf(format string, args ...any) { l.zlog.Debug().Msgf(format, args...) }
func (l *Logger) Info(msg string)                   { l.zlog.Info().Msg(msg) }
func (l *Logger) Infof(format string, args ...any)  { l.zlog.Info().Msgf(format, args...) }
func (l *Logger) Warn(msg string)                   { l.zlog.Warn().Msg(msg) }
func (l *Logger) Warnf(format string, args ...any)  { l.zlog.Warn().Msgf(format, args...) }
func (l *Logger) Error(msg string)                  { l.zlog.Error().Msg(msg) }
func (l *Logger) Errorf(format string, args ...any) { l.zlog.Error().Msgf(format, args...) }

// WarnWith logs msg at warn level with extra fields.
func (l *Logger) WarnWith(msg string, fields map[string]any) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

// ErrorWith logs msg at error level with err and extra fields.
func (l *Logger) ErrorWith(msg string, err error, fields map[string]any) {
	l.zlog.Error().Err(err).Fields(fields).Msg(msg)
}

// RequestEvent starts an info event for HTTP access logging.
func (l *Logger) RequestEvent() *zerolog.Event {
	return l.zlog.Info()
}

// levelOf maps a config level to zerolog. "silent" disables output and
// anything unrecognised means info.
func levelOf(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent", "off", "none":
		return zerolog.Disabled
	case "warning":
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func wantsConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "console", "pretty", "text":
		return true
	case "auto":
		return isTerminal(out)
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
