package bridge

import (
	"math"

	"grandtour/engine"
	"grandtour/proto"
)

// Inbox is the engine-side inbound half of the sync channel.
//
// Host writes are queued on the bus and drained only at a frame boundary,
// so a frame never observes a torn camera configuration.
type Inbox struct {
	bus *Bus
	ep  Capability
}

// NewInbox creates an inbox reading from an endpoint capability.
func NewInbox(bus *Bus, ep Capability) *Inbox {
	return &Inbox{bus: bus, ep: ep}
}

// PropWrite is one decoded host property write.
type PropWrite struct {
	Prop  proto.Prop
	Value float64
}

// Drain collects pending property writes without blocking, collapsing
// repeated writes to the same property to the last one received.
//
// Messages with an unknown kind are dropped; a write whose payload does not
// decode is dropped and reported through pub as WarnBadPayload.
func (in *Inbox) Drain(dst []PropWrite, pub *Publisher) []PropWrite {
	dst = dst[:0]
	for {
		msg, ok := in.bus.TryRecv(in.ep)
		if !ok {
			return dst
		}
		if proto.Kind(msg.Kind) != proto.MsgPropSet {
			continue
		}
		prop, value, ok := proto.DecodePropPayload(msg.Payload())
		if !ok {
			if pub != nil {
				pub.Warn(proto.WarnBadPayload, proto.MsgPropSet.String())
			}
			continue
		}

		replaced := false
		for i := range dst {
			if dst[i].Prop == prop {
				dst[i].Value = value
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, PropWrite{Prop: prop, Value: value})
		}
	}
}

// Apply installs drained writes on a session, atomically per property.
//
// Out-of-domain values are rejected: the previous value stays, and the
// rejection goes back to the host as a warning instead of an error. The
// accepted value of every applied property is echoed through the publisher
// so the host converges on the authoritative state.
func Apply(sess *engine.Session, writes []PropWrite, pub *Publisher) {
	for _, w := range writes {
		var err error
		switch w.Prop {
		case proto.PropProjection:
			// The ordinal rides as a float; anything but an exact known
			// ordinal is rejected before the uint8 conversion.
			if w.Value < 0 || w.Value > 1 || w.Value != math.Trunc(w.Value) {
				err = &engine.ConfigError{Prop: "projection", Reason: "unknown mode"}
			} else {
				err = sess.SetMode(engine.Mode(w.Value))
			}
		case proto.PropViewAngle:
			err = sess.SetViewAngle(w.Value)
		case proto.PropCameraDistance:
			err = sess.SetDistance(w.Value)
		case proto.PropBasePointSize:
			err = sess.SetPointSize(w.Value)
		case proto.PropAxisLength:
			err = sess.SetAxisLen(w.Value)
		default:
			if pub != nil {
				pub.Warn(proto.WarnUnknownProp, w.Prop.String())
			}
			continue
		}

		if err != nil {
			if pub != nil {
				pub.Warn(proto.WarnInvalidConfig, err.Error())
			}
			continue
		}
		if pub != nil {
			pub.Note(w.Prop, w.Value)
		}
	}
}
