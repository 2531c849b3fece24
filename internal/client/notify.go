package client

import (
	"io"
	"os"
)

// Notifier plays the new-message sound. Failures are expected (blocked
// audio, detached terminal) and must never interrupt the refresh flow;
// Fallback is the degraded tone used when Notify fails.
type Notifier interface {
	Notify() error
	Fallback()
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	Out io.Writer
}

func NewBellNotifier() *BellNotifier {
	return &BellNotifier{Out: os.Stdout}
}

func (b *BellNotifier) Notify() error {
	_, err := b.Out.Write([]byte("\a"))
	return err
}

// Fallback writes the bell to stderr, the one stream still attached in
// most failure modes. Errors here are dropped.
func (b *BellNotifier) Fallback() {
	os.Stderr.Write([]byte("\a"))
}

type NopNotifier struct{}

func (NopNotifier) Notify() error { return nil }
func (NopNotifier) Fallback()     {}
