package schedule

import (
	"context"
	"sync"
	"time"
)

// TickFunc は ctx のキャンセルを協調的に確認すること。true を返すとタスクは終了する。
type TickFunc func(ctx context.Context) (stop bool)

// Task はキャンセル可能な定期実行のハンドル
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Every runs fn every interval until fn asks to stop, the task is canceled,
// or the parent context ends. With immediate set, the first tick runs at once.
func Every(parent context.Context, interval time.Duration, immediate bool, fn TickFunc) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go t.run(ctx, interval, immediate, fn)

	return t
}

func (t *Task) run(ctx context.Context, interval time.Duration, immediate bool, fn TickFunc) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		t.cancel()
		close(t.done)
	}()

	if immediate {
		if fn(ctx) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			t.setErr(context.Cause(ctx))
			return
		case <-ticker.C:
			// tick 実行中にキャンセルされた場合は次の tick を待たずに終了する
			if ctx.Err() != nil {
				t.setErr(context.Cause(ctx))
				return
			}
			if fn(ctx) {
				return
			}
		}
	}
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Err reports why the task ended: nil when fn stopped it, otherwise the
// cause of the context cancellation. Only meaningful after Done is closed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task goroutine has returned.
func (t *Task) Wait() {
	<-t.done
}
