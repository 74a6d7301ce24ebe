package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// Source delivers inbound chat messages until ctx is done or the channel closes.
type Source interface {
	Updates(ctx context.Context) <-chan model.Inbound
}

// Handler processes a single inbound message.
type Handler interface {
	Handle(ctx context.Context, msg model.Inbound) error
}

// Dispatcher feeds inbound messages to a single handler goroutine, in arrival order.
type Dispatcher struct {
	source  Source
	handler Handler
	logger  *slog.Logger

	jobs   chan model.Inbound
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs dispatcher with a bounded queue.
func NewDispatcher(source Source, handler Handler, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		source:  source,
		handler: handler,
		logger:  logger.With(slog.String("component", "dispatcher")),
		jobs:    make(chan model.Inbound, queueSize),
	}
}

// Start launches background processing.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(2)
	go d.worker(runCtx)
	go d.dispatch(runCtx)
}

// Stop cancels processing and waits for goroutines to exit. A batch in flight is abandoned.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)

	updates := d.source.Updates(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-updates:
			if !ok {
				return
			}
			select {
			case <-ctx.Done():
				return
			case d.jobs <- msg:
			}
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handle(ctx, msg)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg model.Inbound) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked", slog.Int64("chat", msg.ChatID), slog.String("panic", fmt.Sprint(r)))
		}
	}()

	err := d.handler.Handle(ctx, msg)
	switch {
	case err == nil:
	case errors.Is(err, domainErrors.ErrForeignChat):
		d.logger.Debug("dropped message from foreign chat", slog.Int64("chat", msg.ChatID))
	case errors.Is(err, domainErrors.ErrBatchInProgress):
		d.logger.Info("submission refused while a batch runs", slog.Int64("chat", msg.ChatID))
	default:
		d.logger.Error("handle message failed", slog.Int64("chat", msg.ChatID), slog.String("error", err.Error()))
	}
}
