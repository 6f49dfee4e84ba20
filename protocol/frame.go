package protocol

import "encoding/binary"

// Marshal packs a Record into its frame encoding: index then metric as
// little-endian signed 32-bit integers. The result is always exactly
// FrameSize bytes.
func Marshal(r Record) []byte {
	buf := make([]byte, FrameSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.Index))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(r.Metric))
	return buf
}

// Unmarshal decodes one frame back into a Record. Decoding is
// all-or-nothing: any input whose length differs from FrameSize fails with
// a *FrameFormatError carrying the offending length and raw bytes, and no
// partial Record is ever produced.
//
// Round-trip law: Unmarshal(Marshal(r)) == r for every representable r.
func Unmarshal(frame []byte) (Record, error) {
	if len(frame) != FrameSize {
		raw := make([]byte, len(frame))
		copy(raw, frame)
		return Record{}, &FrameFormatError{Length: len(frame), Raw: raw}
	}
	return Record{
		Index:  int32(binary.LittleEndian.Uint32(frame[0:4])),
		Metric: int32(binary.LittleEndian.Uint32(frame[4:8])),
	}, nil
}
