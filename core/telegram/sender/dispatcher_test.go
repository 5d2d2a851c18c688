package sender

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.html", func() error {
		if calls.Add(1) < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not succeed")
	}
	d.Close()
	if d.Failed() != 0 {
		t.Fatalf("failed = %d", d.Failed())
	}
}

func TestDispatcherCountsPermanentFailure(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	_ = d.Enqueue(context.Background(), "send.html", func() error {
		calls.Add(1)
		return errors.New("bad request: chat not found")
	})
	d.Close()
	if calls.Load() != 1 || d.Failed() != 1 {
		t.Fatalf("calls=%d failed=%d", calls.Load(), d.Failed())
	}
}

func TestDispatcherClosedAndFull(t *testing.T) {
	block := make(chan struct{})
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	started := make(chan struct{})
	_ = d.Enqueue(context.Background(), "a", func() error { close(started); <-block; return nil })
	<-started
	_ = d.Enqueue(context.Background(), "b", func() error { return nil })
	if err := d.Enqueue(context.Background(), "c", func() error { return nil }); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	close(block)
	d.Close()
	if err := d.Enqueue(context.Background(), "d", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	d.Close()
}

func TestRedactAndClassify(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123:ABC-def/sendMessage": EOF`)
	if got := Redact(err); got != `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF` {
		t.Fatalf("Redact = %s", got)
	}
	cases := map[string]error{
		"":         nil,
		"timeout":  context.DeadlineExceeded,
		"http_4xx": &tele.Error{Code: 400, Description: "Bad Request"},
		"http_5xx": &tele.Error{Code: 502, Description: "Bad Gateway"},
		"network":  &net.OpError{Op: "dial", Err: errors.New("x")},
		"unknown":  errors.New("weird"),
	}
	for want, err := range cases {
		if got := Classify(err); got != want {
			t.Fatalf("Classify(%v) = %q, want %q", err, got, want)
		}
	}
}
