package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChannel = errors.New("invalid channel (valid range: 0-125)")
	ErrPayloadSize    = errors.New("payload size must equal the frame size")
)

// FrameFormatError reports a payload whose length does not match the fixed
// frame size. It carries the raw bytes for diagnostics; the receive loop
// logs it and keeps listening.
type FrameFormatError struct {
	Length int
	Raw    []byte
}

func (e *FrameFormatError) Error() string {
	return fmt.Sprintf("frame length %d, want %d (raw: % x)", e.Length, FrameSize, e.Raw)
}

// IsFrameFormat reports whether err is a frame format violation.
func IsFrameFormat(err error) bool {
	var ffe *FrameFormatError
	return errors.As(err, &ffe)
}
