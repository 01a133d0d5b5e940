package mainthread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gslerrors "github.com/matzehuels/gslbridge/pkg/errors"
)

func TestCallRunsOnPump(t *testing.T) {
	p := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{})
	go func() {
		defer close(ran)
		_ = p.Run(ctx)
	}()

	got, err := Call(context.Background(), p, func() (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Fatalf("Call() = (%d, %v), want (42, nil)", got, err)
	}

	wantErr := errors.New("boom")
	_, err = Call(context.Background(), p, func() (string, error) { return "", wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("Call() error = %v, want %v", err, wantErr)
	}

	cancel()
	<-ran
}

func TestCallSerializes(t *testing.T) {
	p := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Call(context.Background(), p, func() (struct{}, error) {
				n := active.Add(1)
				if n > maxActive.Load() {
					maxActive.Store(n)
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
				return struct{}{}, nil
			})
		}()
	}
	wg.Wait()
	if maxActive.Load() != 1 {
		t.Errorf("max concurrent closures = %d, want 1", maxActive.Load())
	}
}

func TestPoll(t *testing.T) {
	p := New(0)
	if p.Poll() {
		t.Fatal("Poll() on an empty pump ran something")
	}

	result := make(chan int, 1)
	go func() {
		v, _ := Call(context.Background(), p, func() (int, error) { return 7, nil })
		result <- v
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !p.Poll() {
		if time.Now().After(deadline) {
			t.Fatal("request never arrived")
		}
		time.Sleep(time.Millisecond)
	}
	if v := <-result; v != 7 {
		t.Errorf("Call() = %d, want 7", v)
	}
}

func TestCallTimeout(t *testing.T) {
	p := New(20 * time.Millisecond)
	// Fill the single slot so the next request cannot be accepted.
	p.requests <- request{fn: func() {}, done: make(chan struct{})}

	_, err := Call(context.Background(), p, func() (int, error) { return 1, nil })
	if !gslerrors.Is(err, gslerrors.ErrCodeTimeout) {
		t.Errorf("Call() error = %v, want TIMEOUT", err)
	}
}

func TestCallTimeoutWhileRunning(t *testing.T) {
	p := New(20 * time.Millisecond)
	// Nobody drives the pump: the request is accepted but never finishes.
	_, err := Call(context.Background(), p, func() (int, error) { return 1, nil })
	if !gslerrors.Is(err, gslerrors.ErrCodeTimeout) {
		t.Errorf("Call() error = %v, want TIMEOUT", err)
	}
}

func TestCallContextCanceled(t *testing.T) {
	p := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.requests <- request{fn: func() {}, done: make(chan struct{})}

	_, err := Call(ctx, p, func() (int, error) { return 1, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Call() error = %v, want context.Canceled", err)
	}
}

func TestCallInlineWhenOwned(t *testing.T) {
	p := New(0)
	// No goroutine drives the pump; an owned context must not block.
	got, err := Call(Owned(context.Background(), p), p, func() (int, error) { return 3, nil })
	if err != nil || got != 3 {
		t.Errorf("Call() = (%d, %v), want (3, nil)", got, err)
	}
}

func TestCallPropagatesPanic(t *testing.T) {
	p := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	defer func() {
		if r := recover(); r != "bad node" {
			t.Errorf("recovered %v, want %q", r, "bad node")
		}
	}()
	_, _ = Call(context.Background(), p, func() (int, error) { panic("bad node") })
}
