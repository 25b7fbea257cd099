package providers

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name string
	err  error
}

func (f *fakeProvider) Name() string                    { return f.name }
func (f *fakeProvider) Probe(ctx context.Context) error { return f.err }

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeProvider{name: "a"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&fakeProvider{name: "a"}); err == nil {
		t.Error("duplicate Register should fail")
	}
}

func TestProbeAll(t *testing.T) {
	r := NewRegistry()
	down := errors.New("connection refused")
	for _, p := range []*fakeProvider{
		{name: "anthropic"},
		{name: "openai", err: down},
		{name: "local"},
	} {
		if err := r.Register(p); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	results := r.ProbeAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Results are sorted by provider name
	wantOrder := []string{"anthropic", "local", "openai"}
	for i, want := range wantOrder {
		if results[i].Provider != want {
			t.Errorf("results[%d].Provider = %s, want %s", i, results[i].Provider, want)
		}
	}

	for _, res := range results {
		wantAvailable := res.Provider != "openai"
		if res.Available != wantAvailable {
			t.Errorf("%s available = %v, want %v", res.Provider, res.Available, wantAvailable)
		}
	}
}

func TestProbeAllEmpty(t *testing.T) {
	r := NewRegistry()
	if results := r.ProbeAll(context.Background()); len(results) != 0 {
		t.Errorf("empty registry returned %d results", len(results))
	}
}

func TestConstructorsRequireKey(t *testing.T) {
	if _, err := NewAnthropicProvider(""); err == nil {
		t.Error("NewAnthropicProvider should reject empty key")
	}
	if _, err := NewOpenAIProvider(""); err == nil {
		t.Error("NewOpenAIProvider should reject empty key")
	}
}
