package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	measures int
}

func (h *countingPipelineHooks) OnMeasureStart(context.Context, int) {
	h.measures++
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.hits++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("default pipeline hooks = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("default cache hooks = %T, want NoopCacheHooks", Cache())
	}

	// No-ops must be safe to call.
	ctx := context.Background()
	Pipeline().OnMeasureStart(ctx, 3)
	Pipeline().OnAllocateComplete(ctx, 2, false, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "measurements", 128)
}

func TestSetHooks(t *testing.T) {
	defer Reset()

	ph := &countingPipelineHooks{}
	ch := &countingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnMeasureStart(ctx, 1)
	Pipeline().OnMeasureStart(ctx, 1)
	Cache().OnCacheHit(ctx, "grid")

	if ph.measures != 2 {
		t.Errorf("measure events = %d, want 2", ph.measures)
	}
	if ch.hits != 1 {
		t.Errorf("cache hit events = %d, want 1", ch.hits)
	}
}

func TestSetHooksIgnoresNil(t *testing.T) {
	defer Reset()

	ph := &countingPipelineHooks{}
	SetPipelineHooks(ph)
	SetPipelineHooks(nil)

	if Pipeline() != ph {
		t.Error("nil registration replaced the active hooks")
	}
}

func TestReset(t *testing.T) {
	SetPipelineHooks(&countingPipelineHooks{})
	SetCacheHooks(&countingCacheHooks{})
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore pipeline no-ops")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() did not restore cache no-ops")
	}
}
