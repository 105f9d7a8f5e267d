package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vsxpack/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Refreshed snapshot (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// stageMessages are the completion lines logged per audit stage.
var stageMessages = map[observability.Stage]string{
	observability.StageResolve:  "Resolved pack",
	observability.StageCheck:    "Checked Open VSX",
	observability.StageEnrich:   "Enriched candidates",
	observability.StageClassify: "Classified members",
	observability.StageRegister: "Registered extensions",
}

// auditLogHooks logs audit stage progress.
type auditLogHooks struct {
	logger *log.Logger
}

func (h *auditLogHooks) OnStageStart(_ context.Context, stage observability.Stage, pack string) {
	h.logger.Debug("stage started", "stage", stage, "pack", pack)
}

func (h *auditLogHooks) OnStageComplete(_ context.Context, stage observability.Stage, pack string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "pack", pack, "err", err)
		return
	}
	msg, ok := stageMessages[stage]
	if !ok {
		msg = string(stage)
	}
	h.logger.Infof("%s: %d (%s)", msg, count, d.Round(time.Millisecond))
}

func (h *auditLogHooks) OnDegraded(_ context.Context, stage observability.Stage, id string, err error) {
	h.logger.Debug("lookup degraded", "stage", stage, "id", id, "err", err)
}

// httpLogHooks logs every outbound request. Registered only when verbose.
type httpLogHooks struct {
	logger *log.Logger
}

func (h *httpLogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *httpLogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

func (h *httpLogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

// cacheLogHooks logs response cache traffic. Registered only when verbose.
type cacheLogHooks struct {
	logger *log.Logger
}

func (h *cacheLogHooks) OnCacheHit(_ context.Context, ns string) {
	h.logger.Debug("cache hit", "ns", ns)
}

func (h *cacheLogHooks) OnCacheMiss(_ context.Context, ns string) {
	h.logger.Debug("cache miss", "ns", ns)
}

func (h *cacheLogHooks) OnCacheSet(_ context.Context, ns string, size int) {
	h.logger.Debug("cache set", "ns", ns, "bytes", size)
}
