package client

import (
	"fmt"
	"io"
	"sync"
)

// Notifier reports transient status messages to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// WriterNotifier prints one line per message, prefixed with its level.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) print(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, msg)
}

func (n *WriterNotifier) Success(msg string) { n.print("ok", msg) }
func (n *WriterNotifier) Info(msg string)    { n.print("info", msg) }
func (n *WriterNotifier) Warning(msg string) { n.print("warn", msg) }
func (n *WriterNotifier) Error(msg string)   { n.print("error", msg) }

type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Info(string)    {}
func (NopNotifier) Warning(string) {}
func (NopNotifier) Error(string)   {}
