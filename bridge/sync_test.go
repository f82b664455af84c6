package bridge

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"grandtour/dataset"
	"grandtour/engine"
	"grandtour/proto"
)

func testLink(t *testing.T) (*Bus, Capability, Capability, *Publisher, *Inbox) {
	t.Helper()
	b := NewBus()
	eng := b.NewEndpoint(RightSend | RightRecv)
	host := b.NewEndpoint(RightSend | RightRecv)
	pub := NewPublisher(b, eng.Restrict(RightSend), host)
	in := NewInbox(b, eng.Restrict(RightRecv))
	return b, eng, host, pub, in
}

func testSession(t *testing.T) *engine.Session {
	t.Helper()
	table, err := dataset.New(
		dataset.Schema{AxisColumns: []string{"x", "y"}, CategoryColumn: "c"},
		map[string][]float64{"x": {0, 1}, "y": {1, 0}},
		[]string{"a", "a"},
		map[string]color.RGBA{"a": {A: 0xFF}},
	)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	sess, err := engine.NewSession(table, 2)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return sess
}

func TestPublisherCoalescesPerFlush(t *testing.T) {
	b, _, host, pub, _ := testLink(t)

	pub.Note(proto.PropViewAngle, 45)
	pub.Note(proto.PropViewAngle, 90)
	pub.Flush()

	msg, ok := b.TryRecv(host)
	if !ok {
		t.Fatalf("no message after flush")
	}
	p, v, ok := proto.DecodePropPayload(msg.Payload())
	if !ok || p != proto.PropViewAngle || v != 90 {
		t.Fatalf("got %v=%v, want viewAngle=90", p, v)
	}
	if _, ok := b.TryRecv(host); ok {
		t.Fatalf("coalesced property emitted more than once")
	}

	// Nothing dirty: flush emits nothing.
	pub.Flush()
	if _, ok := b.TryRecv(host); ok {
		t.Fatalf("clean flush emitted a message")
	}
}

func TestPublisherRetriesOnFullMailbox(t *testing.T) {
	b, eng, host, pub, _ := testLink(t)

	filler := eng.Restrict(RightSend)
	for i := 0; i < mailboxSlots; i++ {
		if res := b.Send(filler, host, 99, nil); res != SendOK {
			t.Fatalf("filler send %d: %s", i, res)
		}
	}

	pub.Note(proto.PropCameraDistance, 5)
	pub.Flush() // mailbox full, value must stay pending

	for i := 0; i < mailboxSlots; i++ {
		b.TryRecv(host)
	}
	pub.Flush()

	msg, ok := b.TryRecv(host)
	if !ok {
		t.Fatalf("pending value lost after mailbox drained")
	}
	if p, v, _ := proto.DecodePropPayload(msg.Payload()); p != proto.PropCameraDistance || v != 5 {
		t.Fatalf("got %v=%v, want cameraDistance=5", p, v)
	}
}

func TestInboxLastWriterWins(t *testing.T) {
	b, eng, host, _, in := testLink(t)
	hostSend := host.Restrict(RightSend)

	b.Send(hostSend, eng, uint16(proto.MsgPropSet), proto.PropPayload(proto.PropViewAngle, 100))
	b.Send(hostSend, eng, uint16(proto.MsgPropSet), proto.PropPayload(proto.PropBasePointSize, 2))
	b.Send(hostSend, eng, uint16(proto.MsgPropSet), proto.PropPayload(proto.PropViewAngle, 120))

	writes := in.Drain(nil, nil)
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	if writes[0].Prop != proto.PropViewAngle || writes[0].Value != 120 {
		t.Fatalf("viewAngle write %+v, want last value 120", writes[0])
	}
}

func TestApplyRejectionWarnsAndRetains(t *testing.T) {
	b, _, host, pub, _ := testLink(t)
	sess := testSession(t)
	prev := sess.Camera().ViewAngle

	Apply(sess, []PropWrite{{Prop: proto.PropViewAngle, Value: 200}}, pub)

	if sess.Camera().ViewAngle != prev {
		t.Fatalf("rejected write changed viewAngle to %v", sess.Camera().ViewAngle)
	}

	msg, ok := b.TryRecv(host)
	if !ok {
		t.Fatalf("no warning published")
	}
	if proto.Kind(msg.Kind) != proto.MsgWarning {
		t.Fatalf("got kind %s, want warning", proto.Kind(msg.Kind))
	}
	code, detail, ok := proto.DecodeWarningPayload(msg.Payload())
	if !ok || code != proto.WarnInvalidConfig {
		t.Fatalf("warning %v %q", code, detail)
	}
	if !strings.Contains(detail, "viewAngle") {
		t.Fatalf("warning detail %q does not name the property", detail)
	}
}

func TestApplyRejectsNaNViewAngle(t *testing.T) {
	b, _, host, pub, _ := testLink(t)
	sess := testSession(t)
	prev := sess.Camera().ViewAngle

	Apply(sess, []PropWrite{{Prop: proto.PropViewAngle, Value: math.NaN()}}, pub)

	if got := sess.Camera().ViewAngle; got != prev {
		t.Fatalf("NaN write installed: viewAngle %v", got)
	}

	msg, ok := b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgWarning {
		t.Fatalf("NaN write not rejected with a warning")
	}
	if code, _, _ := proto.DecodeWarningPayload(msg.Payload()); code != proto.WarnInvalidConfig {
		t.Fatalf("warning code %v, want invalid_config", code)
	}

	// No state echo: the host must not see NaN as accepted.
	pub.Flush()
	if _, ok := b.TryRecv(host); ok {
		t.Fatalf("rejected NaN write produced a state echo")
	}
}

func TestApplyRejectsFractionalMode(t *testing.T) {
	b, _, host, pub, _ := testLink(t)
	sess := testSession(t)

	Apply(sess, []PropWrite{{Prop: proto.PropProjection, Value: 0.9}}, pub)

	if sess.Camera().Mode != engine.Orthographic {
		t.Fatalf("fractional mode ordinal installed: %v", sess.Camera().Mode)
	}
	msg, ok := b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgWarning {
		t.Fatalf("fractional mode ordinal not rejected with a warning")
	}

	// The exact ordinal is still fine.
	Apply(sess, []PropWrite{{Prop: proto.PropProjection, Value: 1}}, pub)
	if sess.Camera().Mode != engine.Perspective {
		t.Fatalf("exact ordinal rejected: %v", sess.Camera().Mode)
	}
}

func TestDrainWarnsOnBadPayload(t *testing.T) {
	b, eng, host, pub, in := testLink(t)
	hostSend := host.Restrict(RightSend)

	full := proto.PropPayload(proto.PropViewAngle, 60)
	b.Send(hostSend, eng, uint16(proto.MsgPropSet), full[:3])

	writes := in.Drain(nil, pub)
	if len(writes) != 0 {
		t.Fatalf("short payload produced %d writes", len(writes))
	}

	msg, ok := b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgWarning {
		t.Fatalf("short payload not reported")
	}
	if code, _, _ := proto.DecodeWarningPayload(msg.Payload()); code != proto.WarnBadPayload {
		t.Fatalf("warning code %v, want bad_payload", code)
	}
}

func TestApplyAcceptedWriteEchoesState(t *testing.T) {
	b, _, host, pub, _ := testLink(t)
	sess := testSession(t)

	Apply(sess, []PropWrite{{Prop: proto.PropCameraDistance, Value: 7}}, pub)
	if sess.Camera().Distance != 7 {
		t.Fatalf("distance %v, want 7", sess.Camera().Distance)
	}

	pub.Flush()
	msg, ok := b.TryRecv(host)
	if !ok {
		t.Fatalf("no state echo after apply+flush")
	}
	if proto.Kind(msg.Kind) != proto.MsgPropState {
		t.Fatalf("got kind %s, want prop_state", proto.Kind(msg.Kind))
	}
}

func TestPublishSelectionChunks(t *testing.T) {
	b, _, host, pub, _ := testLink(t)

	sel := make([]int, selectionChunkCap+3)
	for i := range sel {
		sel[i] = i * 2
	}
	pub.PublishSelection(sel)

	msg, ok := b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgSelectionBegin {
		t.Fatalf("first message %v, want selection_begin", proto.Kind(msg.Kind))
	}
	total, _ := proto.DecodeSelectionBeginPayload(msg.Payload())
	if int(total) != len(sel) {
		t.Fatalf("total %d, want %d", total, len(sel))
	}

	var got []int
	for {
		msg, ok := b.TryRecv(host)
		if !ok {
			break
		}
		if proto.Kind(msg.Kind) != proto.MsgSelectionChunk {
			t.Fatalf("unexpected kind %s", proto.Kind(msg.Kind))
		}
		off, idx, ok := proto.DecodeSelectionChunkPayload(msg.Payload())
		if !ok || int(off) != len(got) {
			t.Fatalf("chunk offset %d, want %d", off, len(got))
		}
		for _, v := range idx {
			got = append(got, int(v))
		}
	}
	if len(got) != len(sel) {
		t.Fatalf("reassembled %d indices, want %d", len(got), len(sel))
	}
	for i := range sel {
		if got[i] != sel[i] {
			t.Fatalf("index %d: %d, want %d", i, got[i], sel[i])
		}
	}
}

func TestSelectionRetriedAfterFullMailbox(t *testing.T) {
	b, eng, host, pub, _ := testLink(t)

	filler := eng.Restrict(RightSend)
	for i := 0; i < mailboxSlots; i++ {
		if res := b.Send(filler, host, 99, nil); res != SendOK {
			t.Fatalf("filler send %d: %s", i, res)
		}
	}

	pub.PublishSelection([]int{1, 2, 3})

	for i := 0; i < mailboxSlots; i++ {
		b.TryRecv(host)
	}
	pub.Flush()

	msg, ok := b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgSelectionBegin {
		t.Fatalf("selection lost after mailbox drained")
	}
	if total, _ := proto.DecodeSelectionBeginPayload(msg.Payload()); total != 3 {
		t.Fatalf("total %d, want 3", total)
	}
	msg, ok = b.TryRecv(host)
	if !ok || proto.Kind(msg.Kind) != proto.MsgSelectionChunk {
		t.Fatalf("selection chunk missing after retry")
	}
	_, idx, ok := proto.DecodeSelectionChunkPayload(msg.Payload())
	if !ok || len(idx) != 3 || idx[0] != 1 || idx[1] != 2 || idx[2] != 3 {
		t.Fatalf("chunk %v, want [1 2 3]", idx)
	}

	// Delivered once: the next flush must not resend it.
	pub.Flush()
	if _, ok := b.TryRecv(host); ok {
		t.Fatalf("delivered selection resent")
	}
}
