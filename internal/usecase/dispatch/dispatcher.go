package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
)

// Sender delivers one message to a "<scheme>:<target>" channel.
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// Dispatcher tries each message once inline and hands failures to a
// single-consumer FIFO queue. The head of the queue is retried after
// retryDelay until maxAttempts have been made, then dropped.
type Dispatcher struct {
	sender      Sender
	clock       clock.Clock
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration
	sendTimeout time.Duration
	capacity    int

	mu    sync.Mutex
	queue []notification.Message
	wake  chan struct{}

	// consumer serializes the worker loop and Drain.
	consumer sync.Mutex

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewDispatcher(sender Sender, clk clock.Clock, logger *slog.Logger, cfg config.NotifyConfig) *Dispatcher {
	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	capacity := cfg.QueueSize
	if capacity < 1 {
		capacity = 1
	}
	return &Dispatcher{
		sender:      sender,
		clock:       clk,
		logger:      logger,
		maxAttempts: maxAttempts,
		retryDelay:  cfg.RetryDelay,
		sendTimeout: cfg.Timeout,
		capacity:    capacity,
		wake:        make(chan struct{}, 1),
	}
}

// Send never returns an error: the outcome says what happened to the message.
func (d *Dispatcher) Send(ctx context.Context, channelID, text string) notification.Outcome {
	msg := notification.Message{ChannelID: channelID, Text: text}

	err := d.attempt(ctx, msg)
	if err == nil {
		return notification.OutcomeDelivered
	}

	d.logger.Warn("通知の即時送信に失敗しました。キューに積みます",
		slog.String("channel_id", channelID),
		slog.String("error", err.Error()))

	msg.RetryCount = 1
	if !d.Enqueue(msg) {
		return notification.OutcomeDropped
	}
	return notification.OutcomeQueued
}

// SendAll sends every message independently; one channel failing does not
// affect the others.
func (d *Dispatcher) SendAll(ctx context.Context, msgs []notification.Message) notification.Report {
	report := make(notification.Report, len(msgs))
	for _, m := range msgs {
		report[m.ChannelID] = d.Send(ctx, m.ChannelID, m.Text)
	}
	return report
}

// Enqueue returns false when the queue is full and the message was dropped.
func (d *Dispatcher) Enqueue(msg notification.Message) bool {
	d.mu.Lock()
	if len(d.queue) >= d.capacity {
		d.mu.Unlock()
		d.logger.Error("通知キューが満杯のため破棄しました",
			slog.String("channel_id", msg.ChannelID),
			slog.Int("capacity", d.capacity))
		return false
	}
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = d.clock.Now()
	}
	d.queue = append(d.queue, msg)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain processes the queue on the caller's goroutine until it is empty or ctx ends.
func (d *Dispatcher) Drain(ctx context.Context) error {
	for d.Len() > 0 {
		if err := d.step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) Start() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if d.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx, d.done)
}

// Stop halts the worker and then drains what is left within ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.lifecycle.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.lifecycle.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if err := d.Drain(ctx); err != nil {
		d.logger.Warn("停止時に未送信の通知が残りました", slog.Int("remaining", d.Len()))
		return err
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if d.Len() == 0 {
			select {
			case <-ctx.Done():
				return
			case <-d.wake:
				continue
			}
		}
		if err := d.step(ctx); err != nil {
			return
		}
	}
}

// step waits retryDelay, then makes one attempt on the head of the queue.
func (d *Dispatcher) step(ctx context.Context) error {
	d.consumer.Lock()
	defer d.consumer.Unlock()

	msg, ok := d.head()
	if !ok {
		return nil
	}

	timer := time.NewTimer(d.retryDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
	}

	err := d.attempt(ctx, msg)
	if err == nil {
		d.pop()
		d.logger.Info("キューの通知を送信しました",
			slog.String("channel_id", msg.ChannelID),
			slog.Int("attempts", msg.RetryCount+1))
		return nil
	}

	msg.RetryCount++
	if msg.RetryCount >= d.maxAttempts {
		d.pop()
		d.logger.Error("通知を破棄しました（再試行上限）",
			slog.String("channel_id", msg.ChannelID),
			slog.Int("attempts", msg.RetryCount),
			slog.Time("enqueued_at", msg.EnqueuedAt),
			slog.String("error", err.Error()))
		return nil
	}

	d.logger.Warn("通知の再送に失敗しました",
		slog.String("channel_id", msg.ChannelID),
		slog.Int("attempts", msg.RetryCount),
		slog.String("error", err.Error()))
	d.replaceHead(msg)
	return nil
}

func (d *Dispatcher) attempt(ctx context.Context, msg notification.Message) error {
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}
	return d.sender.Send(ctx, msg.ChannelID, msg.Text)
}

func (d *Dispatcher) head() (notification.Message, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return notification.Message{}, false
	}
	return d.queue[0], true
}

func (d *Dispatcher) pop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) > 0 {
		d.queue[0] = notification.Message{}
		d.queue = d.queue[1:]
	}
}

func (d *Dispatcher) replaceHead(msg notification.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) > 0 {
		d.queue[0] = msg
	}
}
