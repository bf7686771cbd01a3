package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a command on SIGINT or SIGTERM and tells the user
// what was left undone.
type InterruptHandler struct {
	writer      io.Writer
	cancelFunc  context.CancelFunc
	operation   string
	hint        string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts returns a context that is canceled on interrupt. operation
// names what is being interrupted; hint, when set, is printed after it.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, operation, hint string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.cancelFunc = cancel
	h.operation = operation
	h.hint = hint

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx
}

// interrupt records the interruption once, prints the message and cancels.
func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	if !h.interrupted {
		h.interrupted = true
		h.showInterruptMessage()
	}
	h.mu.Unlock()

	if h.cancelFunc != nil {
		h.cancelFunc()
	}
}

// showInterruptMessage displays a friendly interrupt message.
func (h *InterruptHandler) showInterruptMessage() {
	p := NewPrinterWithColor(h.writer, IsTerminal(h.writer))
	p.Println()
	p.Warning(h.operation + " interrupted!")
	if h.hint != "" {
		p.Info(h.hint)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
