// internal/bridge/port.go
package bridge

import (
	"fmt"
	"sync"

	"inkmark/internal/logger"
)

// Port is the editor's side of the host connection. Send publishes to
// the host; Inbound yields messages from the host.
type Port interface {
	Send(msg Message) error
	Inbound() <-chan Message
	Close() error
}

// inboundBuffer caps the host-to-editor queue. When it overflows the
// newest message is dropped with a warning; the host can resend.
const inboundBuffer = 16

// ChannelPort connects editor and host within one process. The host
// injects messages with Post and reads editor messages with Drain.
type ChannelPort struct {
	mu     sync.Mutex
	in     chan Message
	out    []Message
	closed bool
}

// NewChannelPort creates an open in-process port.
func NewChannelPort() *ChannelPort {
	return &ChannelPort{in: make(chan Message, inboundBuffer)}
}

// Send queues a message for the host.
func (p *ChannelPort) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("bridge port is closed")
	}
	p.out = append(p.out, msg)
	return nil
}

// Inbound returns the host-to-editor message channel.
func (p *ChannelPort) Inbound() <-chan Message {
	return p.in
}

// Post injects a host message. A full queue drops the message.
func (p *ChannelPort) Post(msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.in <- msg:
	default:
		logger.Warnf("bridge: inbound queue full, dropping %s", msg.Type)
	}
}

// Drain returns and clears all queued editor messages.
func (p *ChannelPort) Drain() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.out
	p.out = nil
	return msgs
}

// Close shuts the port down. Further sends fail; the inbound channel is
// closed so readers stop.
func (p *ChannelPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.in)
	}
	return nil
}
