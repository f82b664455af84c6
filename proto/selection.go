package proto

import "encoding/binary"

// SelectionBeginPayload encodes a MsgSelectionBegin payload.
//
// Layout (little-endian):
//   - u32: total selected index count (may be 0)
func SelectionBeginPayload(total uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, total)
	return buf
}

// DecodeSelectionBeginPayload decodes a SelectionBeginPayload.
func DecodeSelectionBeginPayload(payload []byte) (total uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// SelectionChunkPayload encodes a MsgSelectionChunk payload.
//
// Layout (little-endian):
//   - u32: offset of the first index within the full selection
//   - u32: n, the index count in this chunk
//   - n × u32: indices
//
// Callers size chunks to fit the bridge message envelope.
func SelectionChunkPayload(offset uint32, idx []uint32) []byte {
	buf := make([]byte, 8+4*len(idx))
	binary.LittleEndian.PutUint32(buf[0:4], offset)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(idx)))
	for i, v := range idx {
		binary.LittleEndian.PutUint32(buf[8+4*i:], v)
	}
	return buf
}

// DecodeSelectionChunkPayload decodes a SelectionChunkPayload.
func DecodeSelectionChunkPayload(payload []byte) (offset uint32, idx []uint32, ok bool) {
	if len(payload) < 8 {
		return 0, nil, false
	}
	offset = binary.LittleEndian.Uint32(payload[0:4])
	n := binary.LittleEndian.Uint32(payload[4:8])
	if uint32(len(payload)-8)/4 < n {
		return 0, nil, false
	}
	idx = make([]uint32, n)
	for i := range idx {
		idx[i] = binary.LittleEndian.Uint32(payload[8+4*i:])
	}
	return offset, idx, true
}
