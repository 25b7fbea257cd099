package patrol

import (
	"context"
	"testing"
	"time"
)

func TestDispatchSendsMessage(t *testing.T) {
	comms := &mockComms{}
	cfg := testConfig()
	d := NewDispatcher(comms, cfg)

	if err := d.Dispatch(context.Background(), "alice", "hello"); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if len(comms.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(comms.sent))
	}
	msg := comms.sent[0]
	if msg.ToID != "alice" || msg.FromID != cfg.AnnouncerID || msg.Body != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestDispatchWithoutComms(t *testing.T) {
	d := NewDispatcher(nil, testConfig())
	if err := d.Dispatch(context.Background(), "alice", "hello"); err == nil {
		t.Fatal("expected error without a communication channel")
	}
}

func TestDispatchHonorsCancelledContext(t *testing.T) {
	cfg := testConfig()
	cfg.DispatchPacing = time.Minute
	d := NewDispatcher(&mockComms{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Dispatch(ctx, "alice", "first"); err != nil {
		t.Fatalf("first dispatch should pass the burst: %v", err)
	}

	cancel()
	if err := d.Dispatch(ctx, "alice", "second"); err == nil {
		t.Fatal("expected pacing wait to abort on cancelled context")
	}
}
