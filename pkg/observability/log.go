package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger. Request lines are logged at info level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetStoreHooks(h)
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetRequestHooks(h)
}

func (h *LogHooks) OnRead(_ context.Context, kind string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("store read failed", "kind", kind, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("store read", "kind", kind, "duration", d)
}

func (h *LogHooks) OnWrite(_ context.Context, kind string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("store write failed", "kind", kind, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("store write", "kind", kind, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string, aims int) {
	h.Logger.Debug("render start", "format", format, "aims", aims)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, drawn, skipped int, d time.Duration) {
	h.Logger.Debug("render complete", "format", format, "flows", drawn, "skipped", skipped, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}
