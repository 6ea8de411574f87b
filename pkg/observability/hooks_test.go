package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Designer hooks
	d := NoopDesignerHooks{}
	d.OnMutation("add_outlet", 3, 2, "OK", time.Millisecond)
	d.OnRejected("remove_outlet", errors.New("not found"))

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "warehouse.toml")
	p.OnLoadComplete(ctx, "warehouse.toml", 4, time.Second, nil)
	p.OnComputeStart(ctx, 4)
	p.OnComputeComplete(ctx, "WARNING", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/v1/outlets")
	h.OnResponse(ctx, "POST", "/api/v1/outlets", 201, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Designer() should return NoopDesignerHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customDesigner := &testDesignerHooks{}
	SetDesignerHooks(customDesigner)
	if Designer() != customDesigner {
		t.Error("SetDesignerHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Reset() should restore NoopDesignerHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testDesignerHooks{}
	SetDesignerHooks(custom)
	SetDesignerHooks(nil)

	if Designer() != custom {
		t.Error("SetDesignerHooks(nil) should be ignored")
	}
}

type testDesignerHooks struct{ NoopDesignerHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestLogHooks(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	RegisterLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	Designer().OnMutation("drag_outlet", 2, 1, "OK", time.Millisecond)
	Pipeline().OnComputeComplete(context.Background(), "ERROR", time.Millisecond, nil)
	Cache().OnCacheHit(context.Background(), "snapshot")
	HTTP().OnResponse(context.Background(), "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"design mutated", "op=drag_outlet", "compute complete", "status=ERROR", "cache hit", "route=/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
