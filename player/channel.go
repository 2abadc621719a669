package player

import (
	"errors"
	"sync"
)

var ErrChannelClosed = errors.New("channel is closed")

// Channel is one of the two command feeds a node drains: the local
// interactive channel (console / web UI) or the inter-node serial bus.
// Reception can be switched off for the bus-contention silence window;
// bytes arriving while the receiver is off are discarded, not queued.
type Channel interface {
	Available() int
	ReadByte() (byte, bool)
	Write(p []byte) (int, error)
	// Drain throws away whatever is left in the receive buffer, so
	// trailing line terminators can't be misread as a fresh command.
	Drain()
	SetReceiving(on bool)
	Receiving() bool
	Close() error
}

// MemChannel is the in-memory Channel. It backs the local interactive
// channel (stdin pump + web UI both feed it) and doubles as the channel
// stub in tests: Feed injects inbound bytes, Sent exposes what the node
// transmitted.
type MemChannel struct {
	mu        sync.Mutex
	rx        []byte
	tx        []byte
	receiving bool
	closed    bool
}

func NewMemChannel() *MemChannel {
	return &MemChannel{receiving: true}
}

// Feed queues inbound bytes for the node to read. Silenced or closed
// channels swallow the bytes, like a disabled UART receiver would.
func (mc *MemChannel) Feed(p []byte) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed || !mc.receiving {
		return
	}
	mc.rx = append(mc.rx, p...)
	if len(mc.rx) > 4*MaxMessage {
		mc.rx = mc.rx[len(mc.rx)-4*MaxMessage:]
	}
}

// FeedString is Feed for string literals, handy in tests and handlers.
func (mc *MemChannel) FeedString(s string) {
	mc.Feed([]byte(s))
}

func (mc *MemChannel) Available() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.rx)
}

func (mc *MemChannel) ReadByte() (byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if len(mc.rx) == 0 {
		return 0, false
	}
	b := mc.rx[0]
	mc.rx = mc.rx[1:]
	return b, true
}

func (mc *MemChannel) Write(p []byte) (int, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return 0, ErrChannelClosed
	}
	mc.tx = append(mc.tx, p...)
	return len(p), nil
}

func (mc *MemChannel) Drain() {
	mc.mu.Lock()
	mc.rx = mc.rx[:0]
	mc.mu.Unlock()
}

func (mc *MemChannel) SetReceiving(on bool) {
	mc.mu.Lock()
	mc.receiving = on
	if !on {
		mc.rx = mc.rx[:0]
	}
	mc.mu.Unlock()
}

func (mc *MemChannel) Receiving() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.receiving
}

func (mc *MemChannel) Close() error {
	mc.mu.Lock()
	mc.closed = true
	mc.rx = nil
	mc.mu.Unlock()
	return nil
}

// Sent returns a copy of everything written to the channel so far.
func (mc *MemChannel) Sent() []byte {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	out := make([]byte, len(mc.tx))
	copy(out, mc.tx)
	return out
}

// ResetSent clears the transmit log.
func (mc *MemChannel) ResetSent() {
	mc.mu.Lock()
	mc.tx = mc.tx[:0]
	mc.mu.Unlock()
}
