package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed saves and
// store errors are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnEdit(_ context.Context, nodeID, path string) {
	h.logger.Debug("edit", "node", nodeID, "path", path)
}

func (h *LogHooks) OnCancel(_ context.Context, nodeID, path string) {
	h.logger.Debug("cancel", "node", nodeID, "path", path)
}

func (h *LogHooks) OnSave(_ context.Context, nodeID, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "node", nodeID, "path", path, "err", err)
		return
	}
	h.logger.Debug("save", "node", nodeID, "path", path, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRead(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logStore("read", backend, size, d, err)
}

func (h *LogHooks) OnWrite(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logStore("write", backend, size, d, err)
}

func (h *LogHooks) logStore(op, backend string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store "+op+" failed", "backend", backend, "err", err)
		return
	}
	h.logger.Debug("store "+op, "backend", backend, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ EditHooks  = (*LogHooks)(nil)
	_ StoreHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
