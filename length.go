package w4on

import (
	"fmt"
	"io"
)

// MaxLength is the largest value a variable-length field can hold.
const MaxLength = 0x7fff

// AppendLength appends a variable-length field to buf: one byte for values up
// to 0x7f, two bytes with the high bit of the first one set for values up to
// MaxLength.
func AppendLength(buf []byte, length int) ([]byte, error) {
	switch {
	case length < 0 || length > MaxLength:
		return buf, fmt.Errorf("%w: %v (should be 0 .. %v)", ErrLengthTooLarge, length, MaxLength)
	case length > 0x7f:
		return append(buf, byte(length>>8)|0x80, byte(length&0xff)), nil
	default:
		return append(buf, byte(length)), nil
	}
}

// ReadLength decodes a variable-length field from the start of data,
// returning the value and the number of bytes consumed.
func ReadLength(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	a := int(data[0])
	if a&0x80 == 0 {
		return a, 1, nil
	}
	if len(data) < 2 {
		return 0, 1, io.ErrUnexpectedEOF
	}
	return (a&0x7f)<<8 | int(data[1]), 2, nil
}
