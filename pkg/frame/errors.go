package frame

import "errors"

// ErrInvalidFrameLength is returned when a frame's declared length is
// smaller than the length field itself, which can never happen in a
// well-formed message.
var ErrInvalidFrameLength = errors.New("frame: declared length is smaller than the length field")
