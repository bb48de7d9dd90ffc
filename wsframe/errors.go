package wsframe

import "errors"

var (
	ErrProtocol      = errors.New("wsframe: protocol error")
	ErrPayloadTooBig = errors.New("wsframe: payload exceeds configured limit")
	ErrMaskRequired  = errors.New("wsframe: masking required but not present")
	ErrReservedBits  = errors.New("wsframe: reserved bits must be zero")
	ErrControlFrame  = errors.New("wsframe: control frame violates RFC 6455 size/fragmentation rules")
)
