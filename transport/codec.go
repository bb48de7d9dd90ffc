package transport

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidMessage reports a MessagePack message that isn't the expected
// [opcode, ...args] array shape.
var ErrInvalidMessage = errors.New("transport: message must be a non-empty array led by an integer opcode")

// EncodeMessage packs [opcode, args...] as a single MessagePack array,
// the binary frame payload sent to the client.
func EncodeMessage(opcode EventOpCode, args ...interface{}) ([]byte, error) {
	msg := make([]interface{}, 0, len(args)+1)
	msg = append(msg, int(opcode))
	msg = append(msg, args...)
	return msgpack.Marshal(msg)
}

// DecodeMessage unpacks a client message into its opcode and remaining
// positional arguments.
func DecodeMessage(data []byte) (EventOpCode, []interface{}, error) {
	var raw []interface{}
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return 0, nil, err
	}
	if len(raw) == 0 {
		return 0, nil, ErrInvalidMessage
	}
	code, err := toInt(raw[0])
	if err != nil {
		return 0, nil, ErrInvalidMessage
	}
	return EventOpCode(code), raw[1:], nil
}

func toInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, ErrInvalidMessage
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
