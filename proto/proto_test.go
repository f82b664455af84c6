package proto

import "testing"

func TestPropPayloadRoundTrip(t *testing.T) {
	b := PropPayload(PropViewAngle, 72.5)
	p, v, ok := DecodePropPayload(b)
	if !ok || p != PropViewAngle || v != 72.5 {
		t.Fatalf("decode: %v %v %v", p, v, ok)
	}
	if _, _, ok := DecodePropPayload(b[:len(b)-1]); ok {
		t.Fatalf("short prop payload decoded")
	}
}

func TestSelectionChunkRoundTrip(t *testing.T) {
	idx := []uint32{3, 1, 4, 1, 5}
	b := SelectionChunkPayload(7, idx)
	off, got, ok := DecodeSelectionChunkPayload(b)
	if !ok || off != 7 || len(got) != len(idx) {
		t.Fatalf("decode: %v %v %v", off, got, ok)
	}
	for i := range idx {
		if got[i] != idx[i] {
			t.Fatalf("index %d: %d, want %d", i, got[i], idx[i])
		}
	}

	// A count that overruns the payload must fail, not panic.
	if _, _, ok := DecodeSelectionChunkPayload(b[:len(b)-2]); ok {
		t.Fatalf("truncated chunk decoded")
	}
}

func TestSelectionBeginTruncated(t *testing.T) {
	b := SelectionBeginPayload(42)
	if total, ok := DecodeSelectionBeginPayload(b); !ok || total != 42 {
		t.Fatalf("decode: %v %v", total, ok)
	}
	if _, ok := DecodeSelectionBeginPayload(b[:2]); ok {
		t.Fatalf("truncated begin decoded")
	}
}

func TestWarningPayloadDetail(t *testing.T) {
	b := WarningPayload(WarnInvalidConfig, "viewAngle out of range")
	code, detail, ok := DecodeWarningPayload(b)
	if !ok || code != WarnInvalidConfig || detail != "viewAngle out of range" {
		t.Fatalf("decode: %v %q %v", code, detail, ok)
	}
	if _, _, ok := DecodeWarningPayload(b[:1]); ok {
		t.Fatalf("truncated warning decoded")
	}
}

func TestEnumStrings(t *testing.T) {
	if MsgSelectionBegin.String() != "selection_begin" {
		t.Fatalf("kind string %q", MsgSelectionBegin.String())
	}
	if Kind(200).String() != "unknown" {
		t.Fatalf("unknown kind string %q", Kind(200).String())
	}
	if PropCameraDistance.String() != "cameraDistance" {
		t.Fatalf("prop string %q", PropCameraDistance.String())
	}
	if WarnBadPayload.String() != "bad_payload" {
		t.Fatalf("warn string %q", WarnBadPayload.String())
	}
}
