package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charm logger. The CLI registers it under --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks for all event categories.
func RegisterLogHooks(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetDesignerHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnMutation(op string, outlets, pipes int, status string, d time.Duration) {
	h.Logger.Debug("design mutated", "op", op, "outlets", outlets, "pipes", pipes, "status", status, "took", d)
}

func (h LogHooks) OnRejected(op string, err error) {
	h.Logger.Debug("design edit rejected", "op", op, "error", err)
}

func (h LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("load start", "source", source)
}

func (h LogHooks) OnLoadComplete(_ context.Context, source string, outlets int, d time.Duration, err error) {
	h.Logger.Debug("load complete", "source", source, "outlets", outlets, "took", d, "error", err)
}

func (h LogHooks) OnComputeStart(_ context.Context, outlets int) {
	h.Logger.Debug("compute start", "outlets", outlets)
}

func (h LogHooks) OnComputeComplete(_ context.Context, status string, d time.Duration, err error) {
	h.Logger.Debug("compute complete", "status", status, "took", d, "error", err)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "took", d, "error", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("request served", "method", method, "route", route, "status", status, "took", d)
}
