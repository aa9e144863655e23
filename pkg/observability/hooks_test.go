package observability

import (
	"context"
	"testing"
	"time"
)

type recordingRunHooks struct {
	NoopRunHooks
	started []string
}

func (r *recordingRunHooks) OnInvocationStart(_ context.Context, pkg, command string) {
	r.started = append(r.started, pkg+": "+command)
}

type countingCacheHooks struct {
	hits, misses, sets int
}

func (c *countingCacheHooks) OnCacheHit(context.Context, string)      { c.hits++ }
func (c *countingCacheHooks) OnCacheMiss(context.Context, string)     { c.misses++ }
func (c *countingCacheHooks) OnCacheSet(context.Context, string, int) { c.sets++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Errorf("Run() = %T, want NoopRunHooks", Run())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}

	ctx := context.Background()
	Run().OnInvocationStart(ctx, "core", "cargo check")
	Run().OnInvocationComplete(ctx, "core", "cargo check", time.Second, nil)
	Cache().OnCacheHit(ctx, "cargo-version")
}

func TestRegisterHooks(t *testing.T) {
	t.Cleanup(Reset)

	run := &recordingRunHooks{}
	SetRunHooks(run)
	Run().OnInvocationStart(context.Background(), "core", "cargo check")
	if len(run.started) != 1 || run.started[0] != "core: cargo check" {
		t.Errorf("started = %v", run.started)
	}

	c := &countingCacheHooks{}
	SetCacheHooks(c)
	Cache().OnCacheMiss(context.Background(), "cargo-version")
	if c.misses != 1 {
		t.Errorf("misses = %d, want 1", c.misses)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	run := &recordingRunHooks{}
	SetRunHooks(run)
	SetRunHooks(nil)
	if Run() != run {
		t.Error("SetRunHooks(nil) should keep the registered hooks")
	}
}
