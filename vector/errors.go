package vector

import "errors"

var (
	// ErrCorruptSnapshot reports a snapshot that exists but cannot be trusted:
	// unreadable database, missing header, or rows disagreeing with the header.
	ErrCorruptSnapshot = errors.New("vector: corrupt snapshot")

	// ErrUnsupportedFormat reports a snapshot written by an unknown format or version.
	ErrUnsupportedFormat = errors.New("vector: unsupported snapshot format")

	// ErrEncoderMismatch reports a snapshot built with a different encoder.
	ErrEncoderMismatch = errors.New("vector: snapshot encoder mismatch")
)
