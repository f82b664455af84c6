// Package proto defines the message kinds and payload layouts exchanged
// between the viewer engine and its host over the bridge.
//
// All payloads are little-endian and fixed-layout; every codec comes as an
// XxxPayload / DecodeXxxPayload pair.
package proto

// Kind identifies the message type carried in bridge.Message.Kind.
type Kind uint16

const (
	// MsgPropSet is a host→engine property write request.
	MsgPropSet Kind = iota + 1
	// MsgPropState is an engine→host notification of a property's value.
	MsgPropState
	// MsgSelectionBegin announces a completed lasso selection of N indices.
	MsgSelectionBegin
	// MsgSelectionChunk carries a contiguous run of selected indices.
	MsgSelectionChunk
	// MsgWarning reports a recoverable condition such as a rejected write.
	MsgWarning
)

func (k Kind) String() string {
	switch k {
	case MsgPropSet:
		return "prop_set"
	case MsgPropState:
		return "prop_state"
	case MsgSelectionBegin:
		return "selection_begin"
	case MsgSelectionChunk:
		return "selection_chunk"
	case MsgWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Prop identifies a synchronized property.
type Prop uint8

const (
	PropProjection Prop = iota + 1
	PropViewAngle
	PropCameraDistance
	PropBasePointSize
	PropAxisLength
)

func (p Prop) String() string {
	switch p {
	case PropProjection:
		return "projection"
	case PropViewAngle:
		return "viewAngle"
	case PropCameraDistance:
		return "cameraDistance"
	case PropBasePointSize:
		return "basePointSize"
	case PropAxisLength:
		return "axisLength"
	default:
		return "unknown"
	}
}

// WarnCode categorizes MsgWarning payloads.
type WarnCode uint16

const (
	WarnUnknown WarnCode = iota
	WarnInvalidConfig
	WarnUnknownProp
	WarnBadPayload
)

func (c WarnCode) String() string {
	switch c {
	case WarnInvalidConfig:
		return "invalid_config"
	case WarnUnknownProp:
		return "unknown_prop"
	case WarnBadPayload:
		return "bad_payload"
	default:
		return "unknown"
	}
}
