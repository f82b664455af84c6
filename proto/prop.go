package proto

import (
	"encoding/binary"
	"math"
)

// PropPayload encodes a MsgPropSet or MsgPropState payload.
//
// Layout (little-endian):
//   - u8:  property id
//   - f64: value bits (enum properties carry the ordinal as a float)
func PropPayload(p Prop, value float64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(p)
	binary.LittleEndian.PutUint64(buf[1:9], math.Float64bits(value))
	return buf
}

// DecodePropPayload decodes a PropPayload.
func DecodePropPayload(payload []byte) (p Prop, value float64, ok bool) {
	if len(payload) < 9 {
		return 0, 0, false
	}
	p = Prop(payload[0])
	value = math.Float64frombits(binary.LittleEndian.Uint64(payload[1:9]))
	return p, value, true
}
