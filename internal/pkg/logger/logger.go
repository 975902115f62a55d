package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	"charm.land/log/v2"
)

// CharmLogger adapts charm log to ports.Logger.
type CharmLogger struct {
	l *log.Logger
}

// New creates a logger writing to w (stderr when nil). Verbose forces debug
// level; otherwise level is parsed from the configured name and defaults to
// warn so regular CLI output stays clean.
func New(w io.Writer, level string, verbose bool) *CharmLogger {
	if w == nil {
		w = os.Stderr
	}
	lvl := log.WarnLevel
	if parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && level != "" {
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "hostwarden",
		Level:           lvl,
		ReportTimestamp: verbose,
	})
	return &CharmLogger{l: l}
}

func (c *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	c.l.Debug(msg, keyvals(fields)...)
}

func (c *CharmLogger) Info(msg string, fields map[string]interface{}) {
	c.l.Info(msg, keyvals(fields)...)
}

func (c *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	c.l.Warn(msg, keyvals(fields)...)
}

func (c *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	kv := keyvals(fields)
	if err != nil {
		kv = append(kv, "err", err)
	}
	c.l.Error(msg, kv...)
}

// keyvals flattens fields in key order so output is stable.
func keyvals(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, map[string]interface{})        {}
func (Nop) Info(string, map[string]interface{})         {}
func (Nop) Warn(string, map[string]interface{})         {}
func (Nop) Error(string, error, map[string]interface{}) {}
