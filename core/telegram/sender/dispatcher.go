package sender

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/profilebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the task was rejected.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the outbound dispatcher.
type Options struct {
	QueueSize int
	Workers   int
}

type task struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls on a worker pool. Delivery is
// fire-and-forget: a failed call is classified and logged, never retried.
type Dispatcher struct {
	tasks  chan task
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	fails  atomic.Uint64
}

// NewDispatcher starts the worker pool. Zeroed options get defaults.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	d := &Dispatcher{
		tasks:  make(chan task, opts.QueueSize),
		closed: make(chan struct{}),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer d.wg.Done()
			for t := range d.tasks {
				d.process(t)
			}
		}()
	}

	return d
}

// Enqueue schedules run for asynchronous execution. The action and endpoint
// only label log lines.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-d.closed:
		return ErrQueueClosed
	default:
	}

	select {
	case d.tasks <- task{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of failed tasks since start.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.fails.Load()
}

// Close stops accepting tasks and drains the queue.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.closed)
		close(d.tasks)
		d.wg.Wait()
	})
}

func (d *Dispatcher) process(t task) {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	err := t.run()
	elapsed := int(logger.RoundMS(time.Since(start)) / time.Millisecond)

	attrs := []slog.Attr{slog.String("action", t.action)}
	if t.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", t.endpoint))
	}
	if rid := logger.RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if chatID := logger.ChatIDFrom(ctx); chatID != 0 {
		attrs = append(attrs, slog.Int64("chat_id", chatID))
	}
	if userID := logger.UserIDFrom(ctx); userID != 0 {
		attrs = append(attrs, slog.Int64("user_id", userID))
	}
	attrs = append(attrs, slog.Int("elapsed_ms", elapsed))

	if err != nil {
		d.fails.Add(1)
		attrs = append(attrs,
			slog.String("err", logger.Sanitize(err.Error())),
			slog.String("err_kind", failKind(err)),
		)
		logger.Error(ctx, "tg.sender", "send.fail", attrs...)
		return
	}
	logger.Debug(ctx, "tg.sender", "send.success", attrs...)
}

// failKind buckets a delivery error for log aggregation.
func failKind(err error) string {
	if err == nil {
		return ""
	}

	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return "flood"
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code >= 500:
			return "api_5xx"
		case apiErr.Code >= 400:
			return "api_4xx"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "dial"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
		if kind := failKind(urlErr.Err); kind != "unknown" {
			return kind
		}
	}

	// telebot formats unknown API errors as "telegram: <desc> (<code>)".
	msg := err.Error()
	if lp, rp := strings.LastIndex(msg, "("), strings.LastIndex(msg, ")"); lp >= 0 && rp > lp+1 {
		if code, convErr := strconv.Atoi(strings.TrimSpace(msg[lp+1 : rp])); convErr == nil {
			switch {
			case code >= 500:
				return "api_5xx"
			case code >= 400:
				return "api_4xx"
			}
		}
	}

	return "unknown"
}
