package bridge

import "grandtour/proto"

// Publisher is the engine-side outbound half of the sync channel.
//
// High-frequency local changes (a drag, a slider) are coalesced per property
// and flushed at most once per rendering frame: intermediate values may be
// dropped, the final value always goes out. A property whose send hits a
// full mailbox stays dirty and is retried on the next flush.
//
// It has a single logical owner (the frame loop) and is not safe for
// concurrent use.
type Publisher struct {
	bus  *Bus
	from Capability
	to   Capability

	dirty map[proto.Prop]float64
	order []proto.Prop

	// Last completed selection, retried until it goes out in full.
	pendSel    []int
	selPending bool
}

// NewPublisher creates a publisher sending from one capability to another.
func NewPublisher(bus *Bus, from, to Capability) *Publisher {
	return &Publisher{
		bus:   bus,
		from:  from,
		to:    to,
		dirty: make(map[proto.Prop]float64),
	}
}

// Note records a property value for the next flush, replacing any value
// noted earlier in the same frame (last writer wins).
func (p *Publisher) Note(prop proto.Prop, value float64) {
	if _, seen := p.dirty[prop]; !seen {
		p.order = append(p.order, prop)
	}
	p.dirty[prop] = value
}

// Flush emits at most one MsgPropState per dirty property, in the order the
// properties first became dirty, then retries any selection that has not
// gone out in full. Whatever could not be sent remains pending.
func (p *Publisher) Flush() {
	kept := p.order[:0]
	for _, prop := range p.order {
		v := p.dirty[prop]
		res := p.bus.Send(p.from, p.to, uint16(proto.MsgPropState), proto.PropPayload(prop, v))
		if res == SendErrQueueFull {
			kept = append(kept, prop)
			continue
		}
		delete(p.dirty, prop)
	}
	p.order = kept

	p.sendSelection()
}

// Warn reports a recoverable condition to the host immediately.
//
// The detail string is truncated to fit the envelope. Best-effort: a full
// mailbox drops the warning.
func (p *Publisher) Warn(code proto.WarnCode, detail string) {
	if len(detail) > MaxMessageBytes-2 {
		detail = detail[:MaxMessageBytes-2]
	}
	p.bus.Send(p.from, p.to, uint16(proto.MsgWarning), proto.WarningPayload(code, detail))
}

// selectionChunkCap is how many indices fit one chunk envelope.
const selectionChunkCap = (MaxMessageBytes - 8) / 4

// PublishSelection records a completed lasso selection and tries to send it
// as a begin message followed by as many chunks as the envelope requires (an
// empty selection is only the begin message). A full mailbox keeps the
// selection pending; each Flush restarts the transfer from the begin message
// until every chunk is accepted, so the receiver's reassembly state resets
// cleanly on retry. A newer selection replaces a pending one.
func (p *Publisher) PublishSelection(sel []int) {
	p.pendSel = append(p.pendSel[:0], sel...)
	p.selPending = true
	p.sendSelection()
}

func (p *Publisher) sendSelection() {
	if !p.selPending {
		return
	}
	sel := p.pendSel

	res := p.bus.Send(p.from, p.to, uint16(proto.MsgSelectionBegin),
		proto.SelectionBeginPayload(uint32(len(sel))))
	if res == SendErrQueueFull {
		return
	}
	if res != SendOK {
		p.selPending = false
		return
	}

	buf := make([]uint32, 0, selectionChunkCap)
	for off := 0; off < len(sel); off += selectionChunkCap {
		end := off + selectionChunkCap
		if end > len(sel) {
			end = len(sel)
		}
		buf = buf[:0]
		for _, v := range sel[off:end] {
			buf = append(buf, uint32(v))
		}
		res := p.bus.Send(p.from, p.to, uint16(proto.MsgSelectionChunk),
			proto.SelectionChunkPayload(uint32(off), buf))
		if res == SendErrQueueFull {
			return
		}
		if res != SendOK {
			p.selPending = false
			return
		}
	}
	p.selPending = false
}

// Reset drops any pending coalesced state, including an undelivered
// selection. Called on surface detach.
func (p *Publisher) Reset() {
	p.order = p.order[:0]
	for k := range p.dirty {
		delete(p.dirty, k)
	}
	p.pendSel = p.pendSel[:0]
	p.selPending = false
}
