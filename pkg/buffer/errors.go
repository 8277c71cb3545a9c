package buffer

import "fmt"

// InsufficientData is returned when a fixed-width field is read past the end
// of the message payload.
type InsufficientData struct {
	Remaining int
}

func NewInsufficientData(remaining int) error {
	return &InsufficientData{Remaining: remaining}
}

func (e *InsufficientData) Error() string {
	return fmt.Sprintf("buffer: insufficient data, %d bytes remaining", e.Remaining)
}

// MissingNulTerminator is returned when GetString finds no NUL byte before
// the end of the message payload.
type MissingNulTerminator struct{}

func NewMissingNulTerminator() error {
	return &MissingNulTerminator{}
}

func (e *MissingNulTerminator) Error() string {
	return "buffer: expected null terminated string"
}
