package utils

import (
	"encoding/binary"
	"reflect"
)

func UintToBytes(v interface{}) []byte {
	typ := reflect.TypeOf(v).Kind()
	switch typ {
	case reflect.Uint64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, v.(uint64))
		return buf
	case reflect.Uint32:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, v.(uint32))
		return buf
	case reflect.Uint16:
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, v.(uint16))
		return buf
	default:
		return nil
	}
}

func LeftPadBytes(slice []byte, l int) []byte {
	if l <= len(slice) {
		return slice
	}

	padded := make([]byte, l)
	copy(padded[l-len(slice):], slice)

	return padded
}

// Wipe overwrites key material in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
