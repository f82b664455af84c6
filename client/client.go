// Package client is the host-side wrapper over the sync channel: typed
// property setters going in, state echoes, completed selections and
// warnings coming out.
package client

import (
	"grandtour/bridge"
	"grandtour/engine"
	"grandtour/proto"
)

// Warning is one recoverable condition reported by the engine.
type Warning struct {
	Code   proto.WarnCode
	Detail string
}

// Client talks to a viewer engine over a bus.
//
// It is single-owner like the rest of the channel: call it from one
// goroutine.
type Client struct {
	bus  *bridge.Bus
	self bridge.Capability
	eng  bridge.Capability

	props map[proto.Prop]float64

	sel        []int
	selBuf     []int
	selTotal   int
	selPending bool
}

// New creates a client. self is the host endpoint, eng the engine endpoint.
func New(bus *bridge.Bus, self, eng bridge.Capability) *Client {
	return &Client{
		bus:   bus,
		self:  self,
		eng:   eng,
		props: make(map[proto.Prop]float64),
	}
}

func (c *Client) set(p proto.Prop, v float64) bridge.SendResult {
	return c.bus.Send(c.self, c.eng, uint16(proto.MsgPropSet), proto.PropPayload(p, v))
}

// SetProjection requests a projection mode by name.
func (c *Client) SetProjection(mode string) (bridge.SendResult, error) {
	m, err := engine.ParseMode(mode)
	if err != nil {
		return bridge.SendOK, err
	}
	return c.set(proto.PropProjection, float64(m)), nil
}

// SetViewAngle requests a perspective field of view in degrees.
func (c *Client) SetViewAngle(deg float64) bridge.SendResult {
	return c.set(proto.PropViewAngle, deg)
}

// SetCameraDistance requests a camera offset along the depth axis.
func (c *Client) SetCameraDistance(d float64) bridge.SendResult {
	return c.set(proto.PropCameraDistance, d)
}

// SetBasePointSize requests a baseline rendered point size.
func (c *Client) SetBasePointSize(v float64) bridge.SendResult {
	return c.set(proto.PropBasePointSize, v)
}

// SetAxisLength requests a visual axis handle scale.
func (c *Client) SetAxisLength(v float64) bridge.SendResult {
	return c.set(proto.PropAxisLength, v)
}

// Poll drains pending engine messages without blocking and returns any
// warnings received. State echoes update Prop; selection chunks are
// reassembled and land in SelectedPoints once complete.
func (c *Client) Poll() []Warning {
	var warns []Warning
	for {
		msg, ok := c.bus.TryRecv(c.self)
		if !ok {
			return warns
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgPropState:
			if p, v, ok := proto.DecodePropPayload(msg.Payload()); ok {
				c.props[p] = v
			}

		case proto.MsgSelectionBegin:
			total, ok := proto.DecodeSelectionBeginPayload(msg.Payload())
			if !ok {
				continue
			}
			c.selTotal = int(total)
			c.selBuf = c.selBuf[:0]
			c.selPending = true
			if c.selTotal == 0 {
				c.sel = nil
				c.selPending = false
			}

		case proto.MsgSelectionChunk:
			if !c.selPending {
				continue
			}
			_, idx, ok := proto.DecodeSelectionChunkPayload(msg.Payload())
			if !ok {
				continue
			}
			for _, v := range idx {
				c.selBuf = append(c.selBuf, int(v))
			}
			if len(c.selBuf) >= c.selTotal {
				c.sel = append([]int(nil), c.selBuf...)
				c.selPending = false
			}

		case proto.MsgWarning:
			if code, detail, ok := proto.DecodeWarningPayload(msg.Payload()); ok {
				warns = append(warns, Warning{Code: code, Detail: detail})
			}
		}
	}
}

// Prop returns the last state echo for a property.
func (c *Client) Prop(p proto.Prop) (float64, bool) {
	v, ok := c.props[p]
	return v, ok
}

// SelectedPoints returns the last completed lasso selection in engine order.
func (c *Client) SelectedPoints() []int { return c.sel }
