package proto

import "encoding/binary"

// WarningPayload encodes a MsgWarning payload.
//
// Layout (little-endian):
//   - u16: warning code
//   - utf-8 detail text, truncated by the sender to fit the envelope
func WarningPayload(code WarnCode, detail string) []byte {
	buf := make([]byte, 2+len(detail))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	copy(buf[2:], detail)
	return buf
}

// DecodeWarningPayload decodes a WarningPayload.
func DecodeWarningPayload(payload []byte) (code WarnCode, detail string, ok bool) {
	if len(payload) < 2 {
		return 0, "", false
	}
	return WarnCode(binary.LittleEndian.Uint16(payload[0:2])), string(payload[2:]), true
}
