package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter moves formatting output off the caller goroutine. Lines are
// queued and written by a single goroutine to every sink in order.
type asyncWriter struct {
	lines   chan []byte
	flushes chan chan error
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once

	sinks []*bufio.Writer

	mu  sync.Mutex
	err error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		lines:   make(chan []byte, 256),
		flushes: make(chan chan error),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			w.drain()
			return
		case line := <-w.lines:
			w.record(w.write(line))
			// Flush once the burst is drained.
			if len(w.lines) == 0 {
				w.record(w.flush())
			}
		case ack := <-w.flushes:
			ack <- w.flush()
		}
	}
}

// drain writes whatever is still queued and flushes the sinks.
func (w *asyncWriter) drain() {
	for {
		select {
		case line := <-w.lines:
			w.record(w.write(line))
		default:
			w.record(w.flush())
			return
		}
	}
}

// Write queues a copy of p. It blocks when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.lastErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := append([]byte(nil), p...)
	select {
	case <-w.quit:
		return errWriterClosed
	case w.lines <- line:
		return nil
	}
}

// Flush waits until all queued lines reach the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case <-w.done:
		return w.lastErr()
	case w.flushes <- ack:
		return <-ack
	}
}

// Close drains the queue and returns the first write error seen.
func (w *asyncWriter) Close() error {
	w.stop.Do(func() { close(w.quit) })
	<-w.done
	return w.lastErr()
}

var errWriterClosed = errors.New("logger: writer closed")

func (w *asyncWriter) write(line []byte) error {
	for _, s := range w.sinks {
		if _, err := s.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flush() error {
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) record(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

func (w *asyncWriter) lastErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
