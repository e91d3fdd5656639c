package wayland

import (
	"context"
	"testing"
	"time"

	"github.com/veilwm/veil/internal/protocol"
)

func TestDestroyQueueFIFO(t *testing.T) {
	q := newDestroyQueue(8)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if err := q.Enqueue(ctx, protocol.GlobalID(i)); err != nil {
			t.Fatalf("Enqueue(%d) error: %v", i, err)
		}
	}

	for i := 0; i < 8; i++ {
		got := <-q.recv()
		if got != protocol.GlobalID(i) {
			t.Errorf("received %d at position %d, want %d", got, i, i)
		}
	}
}

func TestDestroyQueueBlocksWhenFull(t *testing.T) {
	q := newDestroyQueue(2)
	ctx := context.Background()

	if err := q.Enqueue(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(ctx, 2); err != nil {
		t.Fatal(err)
	}

	// The third enqueue must block until a slot frees, not drop or error.
	unblocked := make(chan error, 1)
	go func() {
		unblocked <- q.Enqueue(ctx, 3)
	}()

	select {
	case err := <-unblocked:
		t.Fatalf("Enqueue on full queue returned early with %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if got := <-q.recv(); got != 1 {
		t.Errorf("consumed %d, want 1", got)
	}

	select {
	case err := <-unblocked:
		if err != nil {
			t.Errorf("Enqueue after slot freed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue still blocked after a slot freed")
	}
}

func TestDestroyQueueEnqueueCancellation(t *testing.T) {
	q := newDestroyQueue(1)
	if err := q.Enqueue(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, 2)
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Enqueue error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled Enqueue never returned")
	}
}
