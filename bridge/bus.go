// Package bridge is the state sync channel between the viewer engine and a
// host process: a small capability-checked message bus plus the engine-side
// publisher and inbox that keep property traffic bounded to frame rate.
//
// The engine owns all shared state; the host only ever requests changes by
// sending messages. Local publication is fire-and-forget.
package bridge

import "sync"

const (
	maxEndpoints = 16
	mailboxSlots = 64
)

// MaxMessageBytes is the maximum payload size for bus messages.
//
// Selections larger than the envelope are chunked, not enlarged.
const MaxMessageBytes = 256

// Endpoint identifies a message destination on the bus.
type Endpoint uint8

// Rights define which operations a capability allows.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Capability grants access to an endpoint.
//
// It is opaque by construction (no exported fields).
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool { return c.rights != 0 }

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// Message is a fixed-size envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the valid portion of the message data.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrNoSendRight:
		return "capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Bus routes messages between endpoints over buffered channels.
//
// Sends never block: a full mailbox yields SendErrQueueFull so the caller
// can retry or coalesce.
type Bus struct {
	mu            sync.Mutex
	endpoints     [maxEndpoints]chan Message
	endpointCount Endpoint
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// NewEndpoint allocates an endpoint and returns a capability for it.
func (b *Bus) NewEndpoint(rights Rights) Capability {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := b.endpointCount
	b.endpointCount++
	b.endpoints[ep] = make(chan Message, mailboxSlots)
	return Capability{ep: ep, rights: rights}
}

// Send sends a message from one capability's endpoint to another's.
func (b *Bus) Send(fromCap, toCap Capability, kind uint16, payload []byte) SendResult {
	if !fromCap.valid() {
		return SendErrInvalidFromCap
	}
	if !fromCap.canSend() {
		return SendErrNoSendRight
	}
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	return b.send(fromCap.ep, toCap.ep, kind, payload)
}

func (b *Bus) send(from, to Endpoint, kind uint16, payload []byte) SendResult {
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	b.mu.Lock()
	var ch chan Message
	if to < b.endpointCount {
		ch = b.endpoints[to]
	}
	b.mu.Unlock()
	if ch == nil {
		return SendErrNoEndpoint
	}

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)

	select {
	case ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}

// RecvChan returns the inbound channel for an endpoint capability.
func (b *Bus) RecvChan(epCap Capability) (<-chan Message, bool) {
	if !epCap.valid() || !epCap.canRecv() {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if epCap.ep >= b.endpointCount {
		return nil, false
	}
	return b.endpoints[epCap.ep], true
}

// TryRecv reads one message without blocking.
func (b *Bus) TryRecv(epCap Capability) (Message, bool) {
	ch, ok := b.RecvChan(epCap)
	if !ok {
		return Message{}, false
	}
	select {
	case msg := <-ch:
		return msg, true
	default:
		return Message{}, false
	}
}
