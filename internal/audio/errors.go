package audio

import "errors"

var (
	// ErrInvalidArguments is returned when the invocation has the wrong shape,
	// e.g. the wrong number of positional arguments.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInvalidParameter is returned when a numeric audio parameter cannot be
	// parsed or is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInputNotFound is returned when the input PCM file does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrIO is returned when reading or measuring the input fails.
	ErrIO = errors.New("I/O error")

	// ErrOutputUnwritable is returned when the output cannot be created or written.
	ErrOutputUnwritable = errors.New("output unwritable")

	// ErrFormatLimitExceeded is returned when the payload does not fit the
	// 32-bit size fields of a RIFF container.
	ErrFormatLimitExceeded = errors.New("WAV format limit exceeded")

	// ErrInvalidWAV is returned when inspected data is not a readable PCM WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")
)
