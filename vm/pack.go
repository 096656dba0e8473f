package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/w4on/w4on"
)

// MaxTrackSize is the largest track data the 16-bit size field can describe.
const MaxTrackSize = 0xffff

// Pack concatenates the data of tracks into a w4on file: the number of
// tracks in one byte, then for each track its size as a big endian 16-bit
// integer followed by the data.
func Pack(tracks [][]byte) ([]byte, error) {
	if len(tracks) > 255 {
		return nil, fmt.Errorf("%w: %v (max 255)", w4on.ErrTooManyTracks, len(tracks))
	}
	size := 1
	for i, t := range tracks {
		if len(t) > MaxTrackSize {
			return nil, fmt.Errorf("track %v: %w: %v bytes (max %v)", i, w4on.ErrTrackTooLarge, len(t), MaxTrackSize)
		}
		size += 2 + len(t)
	}
	ret := make([]byte, 0, size)
	ret = append(ret, byte(len(tracks)))
	for _, t := range tracks {
		ret = binary.BigEndian.AppendUint16(ret, uint16(len(t)))
		ret = append(ret, t...)
	}
	return ret, nil
}

// Unpack splits a w4on file into the data of its tracks.
func Unpack(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty w4on data")
	}
	count := int(data[0])
	ret := make([][]byte, 0, count)
	offset := 1
	for i := 0; i < count; i++ {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("track %v: size missing at offset %v", i, offset)
		}
		size := int(binary.BigEndian.Uint16(data[offset:]))
		offset += 2
		if offset+size > len(data) {
			return nil, fmt.Errorf("track %v: %v bytes of data expected, %v available", i, size, len(data)-offset)
		}
		ret = append(ret, data[offset:offset+size])
		offset += size
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%v bytes of trailing data", len(data)-offset)
	}
	return ret, nil
}
